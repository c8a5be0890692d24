// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tautulli-snitch/config.yaml",
	"/etc/tautulli-snitch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is the dotenv file read from the working directory, if present.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Tautulli: TautulliConfig{
			URL:     "",
			APIKey:  "",
			Timeout: 30 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:             false,
				ConsecutiveFailures: 5,
				OpenTimeout:         60 * time.Second,
			},
		},
		Report: ReportConfig{
			HistoryLength: 100000,
			IPTableLength: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}

// Config paths that command-line flags may override.
const (
	KeyLogLevel        = "logging.level"
	KeyMetricsTextfile = "metrics.textfile"
)

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: explicitPath, or CONFIG_PATH, or the first of DefaultConfigPaths
//  3. Dotenv: values from ./.env for variables not already set in the environment
//  4. Environment Variables: Override any setting
//  5. Overrides: config paths set from command-line flags
//
// The merged result is validated once, after every layer is applied.
// An explicitPath that does not exist is an error; the implicit locations are optional.
func LoadWithKoanf(explicitPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file
	configPath, err := resolveConfigFile(explicitPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Dotenv values, below the real environment
	if err := loadDotEnv(k, DotEnvFile); err != nil {
		return nil, err
	}

	// Layer 4: Load environment variables (highest priority)
	// TAUTULLI_URL -> tautulli.url
	// SNITCH_HISTORY_LENGTH -> report.history_length
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Layer 5: Command-line overrides
	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// resolveConfigFile returns the config file to load, or "" when none applies.
func resolveConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	return findConfigFile(), nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadDotEnv applies mapped keys from a dotenv file without touching the
// process environment. Variables already present in the environment win.
func loadDotEnv(k *koanf.Koanf, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	for name, value := range values {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		mapped := envTransformFunc(name)
		if mapped == "" {
			continue
		}
		if err := k.Set(mapped, value); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", mapped, path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
var envMappings = map[string]string{
	// Tautulli connection
	"tautulli_url":     "tautulli.url",
	"tautulli_api_key": "tautulli.api_key",
	"tautulli_timeout": "tautulli.timeout",

	// Circuit breaker
	"tautulli_circuit_breaker_enabled":              "tautulli.circuit_breaker.enabled",
	"tautulli_circuit_breaker_consecutive_failures": "tautulli.circuit_breaker.consecutive_failures",
	"tautulli_circuit_breaker_open_timeout":         "tautulli.circuit_breaker.open_timeout",

	// Report paging
	"snitch_history_length":  "report.history_length",
	"snitch_ip_table_length": "report.ip_table_length",

	// Metrics export
	"snitch_metrics_file": "metrics.textfile",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TAUTULLI_URL -> tautulli.url
//   - TAUTULLI_API_KEY -> tautulli.api_key
//   - SNITCH_IP_TABLE_LENGTH -> report.ip_table_length
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
