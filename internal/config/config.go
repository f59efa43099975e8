// Package config loads settings for the smartcalc command.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvConfig   = "SMARTCALC_CONFIG"
	EnvLogLevel = "SMARTCALC_LOG_LEVEL"
	EnvLogFile  = "SMARTCALC_LOG_FILE"
)

// Config holds the settings for a calculator session.
type Config struct {
	// Prompt is written before each line when reading from a terminal.
	Prompt string `yaml:"prompt"`
	// Color enables coloured diagnostics.
	Color bool `yaml:"color"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFile is a file to append logs to. Empty means stderr.
	LogFile string `yaml:"log_file"`
	// MaxBits limits the size of exponentiation results. Zero means the
	// engine default.
	MaxBits uint `yaml:"max_bits"`
	// Metrics enables OpenTelemetry metrics.
	Metrics bool `yaml:"metrics"`
	// Variables are defined in every new engine.
	Variables map[string]string `yaml:"variables"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Prompt:   "> ",
		Color:    true,
		LogLevel: "warn",
	}
}

// FromFile loads configuration from a YAML file. Settings missing from the
// file keep their default values.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return FromYAML(data)
}

// FromYAML parses YAML data into a Config on top of the defaults.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Load loads the configuration at path, or the defaults if path is empty,
// then applies environment overrides. If path is empty, the path in
// SMARTCALC_CONFIG is used if it is set.
func Load(path string) (Config, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = FromFile(path)
		if err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.LogFile = v
	}
}

// Validate checks the log level and variable definitions.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	for name, val := range c.Variables {
		if !isName(name) {
			errs = append(errs, fmt.Errorf("variable %q: name must contain only letters", name))
			continue
		}
		if _, ok := new(big.Int).SetString(strings.TrimSpace(val), 10); !ok {
			errs = append(errs, fmt.Errorf("variable %q: %q is not an integer", name, val))
		}
	}
	return errors.Join(errs...)
}

// Vars returns the configured variables as integers. Call Validate first;
// malformed values are skipped.
func (c *Config) Vars() map[string]*big.Int {
	m := make(map[string]*big.Int, len(c.Variables))
	for name, val := range c.Variables {
		x, ok := new(big.Int).SetString(strings.TrimSpace(val), 10)
		if !ok || !isName(name) {
			continue
		}
		m[name] = x
	}
	return m
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}
