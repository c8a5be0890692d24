// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

// Package logging provides zerolog-based structured logging for tautulli-snitch.
//
// A single global logger writes to stderr, leaving stdout for the report.
// Every run gets a short run ID that context-aware helpers attach to each
// line, so the log of one invocation can be picked out of a shared file.
//
// # Quick Start
//
//	import "github.com/schwaboy/tautulli-snitch/internal/logging"
//
//	// Initialize once the configuration is loaded
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: os.Stderr,
//	})
//
//	ctx = logging.ContextWithNewRunID(ctx)
//	logging.Ctx(ctx).Info().Int("users", n).Msg("Report built")
//
// # Configuration
//
// Environment Variables (read through internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error, disabled (default: info)
//	LOG_FORMAT  - Output format: json, console (default: console)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// The --log-level flag overrides LOG_LEVEL.
//
// # Structured Logging
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Ctx(ctx).Info().Str("key", "value").Msg("message")  // Correct
//	logging.Ctx(ctx).Info().Str("key", "value")                 // WRONG - log not emitted
//
// Per-user fetch failures carry the same fields in every mode:
//
//	{"level":"error","run_id":"1a2b3c4d","component":"report","mode":"summary",
//	 "user_id":"7","user":"alice","fetch":"ips","error":"...","message":"Fetch failed, treating as no data"}
//
// # Component Loggers
//
// Code that runs for a request tags its lines with the run ID and a component:
//
//	logger := logging.CtxComponent(ctx, "tautulli")
//	logger.Debug().Str("cmd", "get_history").Msg("Calling Tautulli API")
//
// Code that runs outside a request uses the global logger:
//
//	breakerLogger := logging.WithComponent("circuit_breaker")
//
// # Testing
//
// Tests that assert on log output store their own logger in the context:
//
//	var buf bytes.Buffer
//	ctx := logging.ContextWithLogger(ctx, logging.NewTestLogger(&buf))
package logging
