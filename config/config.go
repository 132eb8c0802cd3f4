// Package config defines the tclint project-configuration schema (spec §6):
// a TOML document describing style thresholds, rule suppressions, and
// per-fileset overrides. This package only holds the Go-native struct
// shape; loading it from a TOML file is an external collaborator's job
// (spec §7's explicit "out of scope" boundary) - callers decode into these
// types with whatever TOML decoder they prefer.
package config

import "path/filepath"

// Style carries the formatter and rule-engine thresholds.
type Style struct {
	IndentWidth         int  `toml:"indent-width"`
	MaxLineLength       int  `toml:"max-line-length"`
	MaxBlankLines       int  `toml:"max-blank-lines"`
	IndentNamespaceEval bool `toml:"indent-namespace-eval"`
	SpacesInBraces      bool `toml:"spaces-in-braces"`
	AllowAlignedSets    bool `toml:"allow-aligned-sets"`
}

// Ignore names rules to disable globally, or scoped to a path glob.
type Ignore struct {
	Rules []string `toml:"rules,omitempty"` // disables these rules everywhere
	Path  string   `toml:"path,omitempty"`  // glob; empty means "everywhere"
}

// Fileset groups a set of source paths under one Style/Ignore override,
// keyed by a glob pattern. The first matching fileset (in document order)
// wins for any given file (spec §9's resolved Open Question).
type Fileset struct {
	Glob   string   `toml:"glob"`
	Style  *Style   `toml:"style,omitempty"`
	Ignore []Ignore `toml:"ignore,omitempty"`
}

// Config is the top-level tclint.toml document shape.
type Config struct {
	Style    Style     `toml:"style"`
	Ignore   []Ignore  `toml:"ignore"`
	Filesets []Fileset `toml:"fileset"`
}

// Default returns the built-in style baseline used when no config file is
// present.
func Default() Config {
	return Config{
		Style: Style{
			IndentWidth:   4,
			MaxLineLength: 100,
			MaxBlankLines: 2,
		},
	}
}

// ForPath resolves the effective Style and disabled-rule set for a given
// source path, applying the first matching Fileset's overrides (if any) on
// top of the top-level Style and Ignore list.
func (c Config) ForPath(path string) (Style, map[string]bool) {
	style := c.Style
	disabled := map[string]bool{}
	applyIgnores(disabled, c.Ignore, path)

	for _, fs := range c.Filesets {
		if !globMatch(fs.Glob, path) {
			continue
		}
		if fs.Style != nil {
			style = *fs.Style
		}
		applyIgnores(disabled, fs.Ignore, path)
		break // first-match-wins (spec §9 Open Question resolution)
	}
	return style, disabled
}

func applyIgnores(disabled map[string]bool, ignores []Ignore, path string) {
	for _, ig := range ignores {
		if ig.Path != "" && !globMatch(ig.Path, path) {
			continue
		}
		for _, r := range ig.Rules {
			disabled[r] = true
		}
	}
}

// globMatch reports whether path matches a shell-style glob pattern.
func globMatch(pattern, path string) bool {
	ok, err := filepath.Match(pattern, path)
	return err == nil && ok
}
