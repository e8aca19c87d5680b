package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/metasim/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "metasim.yaml"

// Config represents the structure of metasim.yaml.
type Config struct {
	LogLevel     string   `yaml:"log_level" json:"log_level"`
	LogFormat    string   `yaml:"log_format" json:"log_format"`
	Seed         int64    `yaml:"seed" json:"seed"`
	ChoiceModels []string `yaml:"choice_models" json:"choice_models"`
	Graphs       []string `yaml:"graphs" json:"graphs"`
	Metrics      Metrics  `yaml:"metrics" json:"metrics"`
}

// Metrics toggles decision metrics.
type Metrics struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Seed:      1,
	}
}

// Load reads a configuration file (YAML or JSON).
// A missing file yields the defaults. Relative document paths are resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	dir := filepath.Dir(path)
	cfg.ChoiceModels = resolve(dir, cfg.ChoiceModels)
	cfg.Graphs = resolve(dir, cfg.Graphs)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func resolve(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out = append(out, p)
	}
	return out
}
