// Package config loads beman-tidy's own settings from user and project
// YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigFile is looked up at the repository top level.
	ProjectConfigFile = ".beman-tidy.yaml"
	// UserConfigFile lives under the XDG config directory.
	UserConfigFile = "config.yaml"

	appName = "beman-tidy"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the tool configuration, layered from the user and project
// config files and the command line flags.
type Config struct {
	// Standard is a catalogue file replacing the embedded one.
	Standard   string `yaml:"standard"`
	RequireAll bool   `yaml:"require_all"`
	Verbose    bool   `yaml:"verbose"`
	// Exclude names checks that never run, even when listed with --checks.
	Exclude     []string `yaml:"exclude"`
	Format      string   `yaml:"format"`
	MetricsFile string   `yaml:"metrics_file"`
}

// DefaultConfig is the configuration before any file or flag applies.
func DefaultConfig() *Config {
	return &Config{Format: FormatText}
}

// Merge overlays other onto c. Strings replace when set, booleans can only
// be switched on, and exclusions accumulate.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Standard != "" {
		c.Standard = other.Standard
	}
	c.RequireAll = c.RequireAll || other.RequireAll
	c.Verbose = c.Verbose || other.Verbose
	for _, name := range other.Exclude {
		if !slices.Contains(c.Exclude, name) {
			c.Exclude = append(c.Exclude, name)
		}
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.MetricsFile != "" {
		c.MetricsFile = other.MetricsFile
	}
}

// Validate rejects an unknown output format.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatText, FormatJSON)
	}
	return nil
}

// Excluded reports whether name is listed in Exclude.
func (c *Config) Excluded(name string) bool {
	return slices.Contains(c.Exclude, name)
}

// UserConfigPath returns the per-user config file location.
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, UserConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, UserConfigFile)
}

// LoadFromFile parses one config file. A relative standard path is
// resolved against the file's directory.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Standard != "" && !filepath.IsAbs(cfg.Standard) {
		cfg.Standard = filepath.Join(filepath.Dir(path), cfg.Standard)
	}
	return &cfg, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
