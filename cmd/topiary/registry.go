package main

import (
	"fmt"
	"os"

	cfg "github.com/tweag/topiary-go/internal/config"
	"github.com/tweag/topiary-go/internal/topiary"
	"github.com/tweag/topiary-go/internal/treesitter"
)

// registry resolves a language name or file path to a formattable
// topiary.Language, merging the bundled manifest with an optional
// user-supplied configuration file.
type registry struct {
	config     cfg.Config
	queryCache *treesitter.QueryCache
}

func newRegistry(configPath string) (*registry, error) {
	manifest, err := treesitter.LoadManifest()
	if err != nil {
		return nil, err
	}

	base := cfg.Config{Languages: make([]cfg.Language, 0, len(manifest.Languages))}
	for _, l := range manifest.Languages {
		base.Languages = append(base.Languages, cfg.Language{Name: l.Name, Indent: l.Indent, Query: l.Query})
	}

	merged := base
	if configPath != "" {
		override, err := cfg.Load(configPath)
		if err != nil {
			return nil, err
		}
		merged = cfg.Merge(base, override)
	}

	return &registry{config: merged, queryCache: treesitter.NewQueryCache(0)}, nil
}

// languageFor resolves name (a registry entry name, e.g. "go") to a
// compiled topiary.Language. queryOverride, if non-empty, replaces the
// configured query file path.
func (r *registry) languageFor(name, queryOverride string) (*topiary.Language, func(), error) {
	entry, ok := r.config.Find(name)
	if !ok {
		return nil, nil, fmt.Errorf("no configuration for language %q", name)
	}

	querySource, err := r.loadQuerySource(entry, queryOverride)
	if err != nil {
		return nil, nil, err
	}

	query, err := r.queryCache.Compile(name, querySource)
	if err != nil {
		return nil, nil, err
	}

	parser, err := treesitter.NewParser(name)
	if err != nil {
		return nil, nil, err
	}

	lang := &topiary.Language{
		Name:         name,
		Parser:       parser,
		Query:        query,
		Matcher:      treesitter.NewMatcher(),
		IndentString: entry.Indent,
	}
	cleanup := func() { _ = parser.Close() }
	return lang, cleanup, nil
}

func (r *registry) loadQuerySource(entry cfg.Language, override string) ([]byte, error) {
	switch {
	case override != "":
		return os.ReadFile(override)
	case entry.QueryFile != "":
		return os.ReadFile(entry.QueryFile)
	case entry.Query != "":
		return treesitter.LoadQuerySource(entry.Query)
	default:
		return nil, fmt.Errorf("language %q has no bundled or configured query", entry.Name)
	}
}

// languageForPath resolves a file path to a registry entry name via
// extension, falling back to explicitLanguage when non-empty.
func languageForPath(path, explicitLanguage string) (string, error) {
	if explicitLanguage != "" {
		return explicitLanguage, nil
	}
	name := treesitter.MapPath(path)
	if name == "" {
		return "", fmt.Errorf("cannot detect a language for %q; pass --language", path)
	}
	return name, nil
}
