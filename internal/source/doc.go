// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

/*
Package source provides the Tautulli API v2 client used as the data source
for every report.

Requests are plain GETs against {url}/api/v2 with the apikey and cmd query
parameters. Commands used:

	arnold                  connectivity check (--check)
	get_user_names          user list
	get_user_player_stats   per-player rows for one user (summary)
	get_user_ips            IP table for one user (summary)
	get_history             play history for one user (detail, inactivity)

Calls are sequential and never retried. Use New to get the client selected
by configuration:

	client := source.New(&cfg.Tautulli)
	users, err := client.GetUserNames(ctx)
*/
package source
