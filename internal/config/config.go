// Package config handles geodat's YAML configuration file and its
// interaction with CLI flag overrides, structured the way
// carl-ship-it-ebpf-ddos-scrubber's internal/config handles the
// scrubber's configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is geodat's top-level configuration.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// Comment is a free-form trailer comment string (spec §4.3).
	// Defaults to "geodat". Validate rejects an empty value; the build
	// does not read this field, and every emitted .dat file carries the
	// fixed dat.Comment.
	Comment string `yaml:"comment"`

	// StrictSegments promotes the "segment count overflow" warning
	// (spec §7) to a hard build error instead of writing a malformed
	// file.
	StrictSegments bool `yaml:"strict_segments"`

	// Locations optionally names a default City locations CSV, so the
	// -locations flag can be omitted on repeated builds.
	Locations string `yaml:"locations"`
}

// DefaultConfig returns a configuration with reasonable defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		Comment:        "geodat",
		StrictSegments: false,
	}
}

// LoadFromFile loads configuration from a YAML file, falling back to
// defaults for any field the file doesn't set.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.Comment == "" {
		return fmt.Errorf("comment must not be empty")
	}
	return nil
}
