// Package config loads the optional compose.yaml configuration for the
// composectl tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional compose.yaml configuration.
type Config struct {
	Replay ReplayConfig `yaml:"replay"`
}

// ReplayConfig contains replay defaults.
type ReplayConfig struct {
	// MaxPasses bounds recomposition passes per cycle. Zero uses the
	// runtime default.
	MaxPasses int `yaml:"maxPasses,omitempty"`
}

// LoadOptional reads compose.yaml from dir if present. A missing file is
// not an error and yields the zero config.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "compose.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read compose.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse compose.yaml: %w", err)
	}

	return &cfg, nil
}
