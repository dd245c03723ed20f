package config

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bemanproject/beman-tidy/internal/logging"
)

// Loader assembles a Config from its layers:
//  1. defaults
//  2. user config ($XDG_CONFIG_HOME/beman-tidy/config.yaml)
//  3. project config (.beman-tidy.yaml at the repository top level)
//  4. an explicit file given with --config
//
// Command-line flags are applied by the caller on top of the result.
type Loader struct {
	logger   *zap.SugaredLogger
	userPath string
}

func NewLoader(logger *zap.SugaredLogger) *Loader {
	return &Loader{logger: logging.OrNop(logger), userPath: UserConfigPath()}
}

// WithUserPath overrides the user config location.
func (l *Loader) WithUserPath(path string) *Loader {
	l.userPath = path
	return l
}

// Load merges every layer that exists. Missing user and project files are
// skipped; a malformed file or a missing explicit file is an error.
func (l *Loader) Load(topLevel, explicit string) (*Config, error) {
	cfg := DefaultConfig()

	layers := []string{l.userPath}
	if topLevel != "" {
		layers = append(layers, filepath.Join(topLevel, ProjectConfigFile))
	}
	for _, path := range layers {
		if path == "" {
			continue
		}
		layer, err := LoadFromFile(path)
		if err != nil {
			if isNotExist(err) {
				l.logger.Debugw("no config file", "path", path)
				continue
			}
			return nil, err
		}
		l.logger.Debugw("loaded config", "path", path)
		cfg.Merge(layer)
	}

	if explicit != "" {
		layer, err := LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		l.logger.Debugw("loaded config", "path", explicit)
		cfg.Merge(layer)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
