// Package config loads codescore settings from defaults, a YAML file, the
// environment, and command-line overrides. Later sources win.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatMD       = "md"
	FormatText     = "text"
)

// Config represents the codescore configuration.
type Config struct {
	Analyzer  string        `yaml:"analyzer" json:"analyzer"`
	Semgrep   SemgrepConfig `yaml:"semgrep" json:"semgrep"`
	Profile   string        `yaml:"profile" json:"profile"`
	Format    string        `yaml:"format" json:"format"`
	FailUnder float64       `yaml:"fail_under" json:"fail_under"`
	Redact    bool          `yaml:"redact" json:"redact"`
	History   HistoryConfig `yaml:"history" json:"history"`
	Server    ServerConfig  `yaml:"server" json:"server"`
}

// SemgrepConfig controls how the semgrep analyzer is invoked.
type SemgrepConfig struct {
	Binary  string   `yaml:"binary" json:"binary"`
	Configs []string `yaml:"configs" json:"configs"`
}

// HistoryConfig points at the score history database. An empty DSN disables
// history.
type HistoryConfig struct {
	DSN string `yaml:"dsn" json:"dsn"`
}

// ServerConfig controls `codescore serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Analyzer: "semgrep",
		Semgrep: SemgrepConfig{
			Binary:  "semgrep",
			Configs: []string{"auto"},
		},
		Profile: "auto",
		Format:  FormatJSON,
		Redact:  true,
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// ConfigDir returns the platform-appropriate config directory for codescore.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codescore"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "codescore"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "codescore"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "codescore"), nil
	default:
		return filepath.Join(home, ".config", "codescore"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile decodes the YAML file at path on top of base. Keys absent from the
// file keep their value from base.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.LoadFile: %w", err)
	}
	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config.LoadFile: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging defaults <- file <- env <-
// overrides. An empty path means the default config file, which may be
// absent; an explicit path must exist. Override keys use SetField names and
// empty values are ignored.
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	fileCfg, err := LoadFile(path, cfg)
	switch {
	case err == nil:
		cfg = fileCfg
	case !explicit && errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, err
	}

	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(&cfg, key, value); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var envKeys = []struct{ env, key string }{
	{"CODESCORE_ANALYZER", "analyzer"},
	{"CODESCORE_PROFILE", "profile"},
	{"CODESCORE_FORMAT", "format"},
	{"CODESCORE_FAIL_UNDER", "fail_under"},
	{"CODESCORE_HISTORY_DSN", "history.dsn"},
	{"CODESCORE_ADDR", "server.addr"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "analyzer":
		cfg.Analyzer = value
	case "semgrep.binary":
		cfg.Semgrep.Binary = value
	case "semgrep.configs":
		var configs []string
		for _, c := range strings.Split(value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				configs = append(configs, c)
			}
		}
		cfg.Semgrep.Configs = configs
	case "profile":
		cfg.Profile = value
	case "format":
		cfg.Format = value
	case "fail_under":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("fail_under must be a number: %w", err)
		}
		cfg.FailUnder = f
	case "redact":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redact must be a boolean: %w", err)
		}
		cfg.Redact = b
	case "history.dsn":
		cfg.History.DSN = value
	case "server.addr":
		cfg.Server.Addr = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Validate checks values that cannot be caught by decoding.
func (c Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatMarkdown, FormatMD, FormatText:
	default:
		return fmt.Errorf("invalid format %q (want json, markdown, or text)", c.Format)
	}
	if c.FailUnder < 0 || c.FailUnder > 100 {
		return fmt.Errorf("fail_under must be between 0 and 100, got %g", c.FailUnder)
	}
	return nil
}
