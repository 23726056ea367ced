// Package profile handles loading built-in and custom language profiles.
//
// A profile tells the codebase walker which files are source files, which of
// those are tests, what counts as a documentation comment, and which
// directories to skip.
package profile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Auto selects the profile of the detected primary language.
const Auto = "auto"

// Profile describes one language's file conventions.
type Profile struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Extensions   []string `yaml:"extensions"`
	TestPatterns []string `yaml:"test_patterns"`
	DocMarkers   []string `yaml:"doc_markers"`
	ExcludeDirs  []string `yaml:"exclude_dirs"`
}

// LoadBuiltin loads a built-in profile by name.
func LoadBuiltin(name string) (*Profile, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: unknown profile %q: %w", name, err)
	}
	p, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile.LoadBuiltin: parse %q: %w", name, err)
	}
	return p, nil
}

// LoadFile loads a custom profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile.LoadFile: %w", err)
	}
	p, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile.LoadFile: parse %q: %w", path, err)
	}
	return p, nil
}

func parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile has no name")
	}
	if len(p.Extensions) == 0 {
		return nil, fmt.Errorf("profile %q has no extensions", p.Name)
	}
	for i, ext := range p.Extensions {
		p.Extensions[i] = strings.ToLower(ext)
	}
	return &p, nil
}

// List returns the names of all available built-in profiles.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// All loads every built-in profile, sorted by name.
func All() ([]*Profile, error) {
	names, err := List()
	if err != nil {
		return nil, err
	}
	profiles := make([]*Profile, 0, len(names))
	for _, n := range names {
		p, err := LoadBuiltin(n)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// IsSource reports whether path has one of the profile's extensions.
func (p *Profile) IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsTest reports whether the base name of path matches a test pattern.
func (p *Profile) IsTest(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range p.TestPatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// HasDocMarker reports whether line contains a documentation comment marker.
func (p *Profile) HasDocMarker(line string) bool {
	for _, m := range p.DocMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// Excluded reports whether a directory with this base name is skipped.
func (p *Profile) Excluded(dir string) bool {
	for _, d := range p.ExcludeDirs {
		if d == dir {
			return true
		}
	}
	return false
}

// FormatSummary renders a one-line description of the profile.
func FormatSummary(p *Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-11s %s", p.Name, strings.Join(p.Extensions, " "))
	if len(p.TestPatterns) > 0 {
		fmt.Fprintf(&b, "  tests: %s", strings.Join(p.TestPatterns, " "))
	}
	return b.String()
}
