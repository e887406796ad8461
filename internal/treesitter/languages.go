package treesitter

import (
	"path/filepath"
	"strings"
)

// extensionOverrides maps file extensions to their tree-sitter grammar
// language name where it differs from the name naively inferred from the
// extension.
var extensionOverrides = map[string]string{
	"jsx":    "javascript",      // JS grammar handles JSX natively
	"tsx":    "typescript",      // TS grammar handles TSX natively
	"cs":     "csharp",          // C# source files
	"ml":     "ocaml",           // OCaml source files
	"mli":    "ocaml_interface", // OCaml interface files (separate grammar)
	"tf":     "hcl",             // Terraform uses the HCL grammar
	"tfvars": "hcl",             // Terraform variables use the HCL grammar
	"ino":    "arduino",         // Arduino sketch files
	"cht":    "chatito",         // Chatito training files
}

// languageAliases maps a language identifier to the query-set key used to
// look up its embedded .scm file, for languages that share a query set
// with another grammar.
var languageAliases = map[string]string{
	"tsx": "typescript",
}

// BaseExtensions is the direct extension-to-grammar fallback for languages
// with no override.
var BaseExtensions = map[string]string{
	"go":         "go",
	"py":         "python",
	"pyw":        "python",
	"pyx":        "python",
	"pxd":        "python",
	"js":         "javascript",
	"mjs":        "javascript",
	"cjs":        "javascript",
	"ts":         "typescript",
	"mts":        "typescript",
	"cts":        "typescript",
	"rs":         "rust",
	"java":       "java",
	"c":          "c",
	"h":          "c",
	"cpp":        "cpp",
	"cxx":        "cpp",
	"cc":         "cpp",
	"hpp":        "cpp",
	"hxx":        "cpp",
	"hh":         "cpp",
	"rb":         "ruby",
	"rake":       "ruby",
	"php":        "php",
	"scala":      "scala",
	"sc":         "scala",
	"dart":       "dart",
	"hs":         "haskell",
	"lhs":        "haskell",
	"lua":        "lua",
	"properties": "properties",
	"jl":         "julia",
	"hcl":        "hcl",
}

// MapExtension returns the tree-sitter grammar name for a file extension,
// or "" if the extension isn't recognised. The lookup is case-insensitive
// and tolerates a leading dot.
func MapExtension(ext string) string {
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	if lang, ok := extensionOverrides[ext]; ok {
		return lang
	}
	if lang, ok := BaseExtensions[ext]; ok {
		return lang
	}
	return ""
}

// MapPath returns the tree-sitter grammar name for a file path.
func MapPath(path string) string {
	return MapExtension(filepath.Ext(path))
}

// GetQueryKey resolves a language identifier to the key its embedded query
// file is stored under, applying languageAliases.
func GetQueryKey(lang string) string {
	if lang == "" {
		return ""
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	return lang
}

// HasQuery reports whether a formatting query is embedded for lang.
func HasQuery(lang string) bool {
	return hasEmbeddedQuery(GetQueryKey(lang))
}
