// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

/*
Command snitch prints per-user device and IP activity reports built from a
Tautulli server's API.

# Modes

	snitch                        summary: devices and unique IPs per user
	snitch --sort name            summary ordered by name (name, devices, ips)
	snitch --user alice           detail: ranked IPs and devices per matching user
	snitch --inactive 30          users with no plays in the last 30 days
	snitch --check                verify the API is reachable and exit

--inactive takes precedence over --user. Add --output json for
machine-readable output.

# Configuration

Settings are layered (highest priority wins):
  - Environment variables (TAUTULLI_URL, TAUTULLI_API_KEY, LOG_LEVEL, ...)
  - A .env file in the working directory
  - Config file (--config, CONFIG_PATH, or config.yaml)
  - Built-in defaults

Logs go to stderr so stdout carries only the report.

# Exit Codes

	0  report printed, or an invalid --user / --inactive value
	1  configuration error, user list unavailable, or output failure
	2  unknown flag or flag value
*/
package main
