// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

// Package config loads tautulli-snitch configuration.
//
// Configuration is layered with Koanf v2 (highest priority wins):
//   - Environment variables (TAUTULLI_URL, TAUTULLI_API_KEY, LOG_LEVEL, ...)
//   - A .env file in the working directory
//   - An optional YAML config file
//   - Built-in defaults
//
// A minimal setup only needs the Tautulli connection:
//
//	export TAUTULLI_URL=http://localhost:8181
//	export TAUTULLI_API_KEY=your-api-key
//
// or the equivalent config.yaml:
//
//	tautulli:
//	  url: http://localhost:8181
//	  api_key: your-api-key
//	report:
//	  history_length: 100000
//	logging:
//	  level: debug
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Tautulli TautulliConfig `koanf:"tautulli"`
	Report   ReportConfig   `koanf:"report"`
	Logging  LoggingConfig  `koanf:"logging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// TautulliConfig holds the Tautulli API connection settings.
//
// Environment Variables:
//   - TAUTULLI_URL: Tautulli base URL (e.g., http://localhost:8181)
//   - TAUTULLI_API_KEY: API key from Tautulli Settings > Web Interface
//   - TAUTULLI_TIMEOUT: per-request timeout (default: 30s)
type TautulliConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	APIKey  string        `koanf:"api_key" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// CircuitBreakerConfig controls the optional circuit breaker around the
// Tautulli client. While open, calls fail immediately and the affected users
// are reported with no data, exactly like any other per-user fetch failure.
type CircuitBreakerConfig struct {
	// Enabled turns the breaker on. Default: false
	Enabled bool `koanf:"enabled"`

	// ConsecutiveFailures is the number of consecutive failed requests that
	// opens the circuit. Default: 5
	ConsecutiveFailures uint32 `koanf:"consecutive_failures" validate:"min=1"`

	// OpenTimeout is how long the circuit stays open before a trial request
	// is allowed through. Default: 60s
	OpenTimeout time.Duration `koanf:"open_timeout" validate:"gt=0"`
}

// ReportConfig holds paging limits used when fetching per-user data.
type ReportConfig struct {
	// HistoryLength is the number of history rows requested per user in
	// detail mode. Default: 100000
	HistoryLength int `koanf:"history_length" validate:"min=1"`

	// IPTableLength is the number of IP rows requested per user in summary
	// mode. Default: 10000
	IPTableLength int `koanf:"ip_table_length" validate:"min=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// MetricsConfig holds run metrics export settings.
type MetricsConfig struct {
	// Textfile is a path for a Prometheus textfile-collector export written
	// after the report. Empty disables the export.
	Textfile string `koanf:"textfile"`
}
