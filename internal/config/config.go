// Package config loads and merges the language configuration
// cmd/topiary runs against: the bundled manifest embedded in
// internal/treesitter, optionally extended or overridden by a
// user-supplied languages.yml passed via --configuration.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Language is one entry of a language configuration file: the grammar to
// format with, its indentation string, and an optional override of the
// bundled query file.
type Language struct {
	Name      string   `yaml:"name"`
	Indent    string   `yaml:"indent"`
	Query     string   `yaml:"query,omitempty"`
	QueryFile string   `yaml:"query_file,omitempty"`
	Extra     []string `yaml:"extensions,omitempty"`
}

// Config is a language configuration file's parsed contents.
type Config struct {
	Languages []Language `yaml:"languages"`
}

// Load reads and parses a languages.yml file from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read configuration %q: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse configuration %q: %w", path, err)
	}
	return c, nil
}

// Merge overlays override onto base: a language present in both is
// replaced wholesale by override's entry (keyed by Name); a language
// present only in override is appended; base order is otherwise
// preserved.
func Merge(base, override Config) Config {
	byName := make(map[string]int, len(base.Languages))
	merged := make([]Language, len(base.Languages))
	copy(merged, base.Languages)
	for i, l := range merged {
		byName[l.Name] = i
	}

	for _, l := range override.Languages {
		if i, ok := byName[l.Name]; ok {
			merged[i] = l
		} else {
			byName[l.Name] = len(merged)
			merged = append(merged, l)
		}
	}

	return Config{Languages: merged}
}

// Find returns the configuration entry named name, if any.
func (c Config) Find(name string) (Language, bool) {
	for _, l := range c.Languages {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}
