// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

// Package tautulli provides data models for Tautulli API v2 responses.
//
// Every Tautulli command answers with the same envelope:
//
//	{
//	  "response": {
//	    "result": "success",
//	    "message": null,
//	    "data": ...
//	  }
//	}
//
// The commands used by tautulli-snitch return lists whose shape differs
// between Tautulli versions:
//
//   - get_user_names: a bare list of users
//   - get_user_player_stats: a bare list, or {"players": [...]}
//   - get_user_ips: a bare list, or {"data": [...], "recordsTotal": ...}
//   - get_history: a bare list, or {"data": [...], "recordsTotal": ...}
//
// Records normalizes both forms to []Record. Rows stay loosely typed;
// the activity package turns them into typed values.
package tautulli
