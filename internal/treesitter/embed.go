package treesitter

import (
	"embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed queries/*.scm languages.yml
var queriesFS embed.FS

// Manifest is the source-of-truth language registry: one entry per
// registered grammar. Only entries with a Query key have a bundled
// formatting query; the others need a user-supplied query file.
type Manifest struct {
	Languages []ManifestLanguage `yaml:"languages"`
}

// ManifestLanguage describes one supported language's formatting
// configuration.
type ManifestLanguage struct {
	Name    string `yaml:"name"`
	Indent  string `yaml:"indent"`
	Query   string `yaml:"query"`
}

// LoadManifest loads the embedded language manifest.
func LoadManifest() (Manifest, error) {
	data, err := queriesFS.ReadFile("languages.yml")
	if err != nil {
		return Manifest{}, fmt.Errorf("read embedded language manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse embedded language manifest: %w", err)
	}
	return m, nil
}

// LoadQuerySource returns the embedded formatting query source for a
// query key, e.g. "go" -> queries/go.scm.
func LoadQuerySource(queryKey string) ([]byte, error) {
	name := strings.TrimSpace(queryKey)
	if name == "" {
		return nil, fmt.Errorf("query key is empty")
	}
	return queriesFS.ReadFile("queries/" + name + ".scm")
}

func hasEmbeddedQuery(queryKey string) bool {
	_, err := LoadQuerySource(queryKey)
	return err == nil
}
