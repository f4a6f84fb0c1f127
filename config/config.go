// Package config provides configuration loading and validation for the
// paramset command, and a guarded holder for a live parameter registry.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/artpar/paramset/ports"
)

// Config is the root configuration structure.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Schema  SchemaConfig  `yaml:"schema"`
	Values  ValuesConfig  `yaml:"values"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"PARAMSET_LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"PARAMSET_LOG_FORMAT"` // "json" or "console"
}

// SchemaConfig locates the schema document.
type SchemaConfig struct {
	// Path to a YAML or TOML schema. Empty selects the built-in device schema.
	Path string `yaml:"path" env:"PARAMSET_SCHEMA"`
}

// ValuesConfig locates the values file a Holder loads.
type ValuesConfig struct {
	Path string `yaml:"path" env:"PARAMSET_VALUES"`

	// Format is "compact" or "json". Empty means infer from the extension.
	Format string `yaml:"format" env:"PARAMSET_VALUES_FORMAT"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"PARAMSET_METRICS_ENABLED"`
	Addr    string `yaml:"addr" env:"PARAMSET_METRICS_ADDR"` // listen address for /metrics in watch mode
}

// Load reads configuration from a YAML file, then applies environment
// overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		data = []byte(os.ExpandEnv(string(data)))

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variables always override file-based configuration.
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// ParseEnv applies PARAMSET_* environment variables to target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ValuesFormat returns the codec used for the values file: the configured
// format, or one inferred from the file extension (.json is JSON, anything
// else compact).
func (c *Config) ValuesFormat() string {
	if c.Values.Format != "" {
		return c.Values.Format
	}
	return FormatForPath(c.Values.Path)
}

// FormatForPath infers a codec format from a file name.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ports.FormatJSON
	}
	return ports.FormatCompact
}

func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	cfg.Values.Format = strings.ToLower(cfg.Values.Format)
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}

func validate(cfg *Config) error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, disabled; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	validValueFormats := map[string]bool{"": true, ports.FormatCompact: true, ports.FormatJSON: true}
	if !validValueFormats[cfg.Values.Format] {
		return fmt.Errorf("values.format must be 'compact' or 'json', got %q", cfg.Values.Format)
	}

	return nil
}
