// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package source

import (
	"context"
	"net/url"

	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// GetUserNames retrieves every user known to Tautulli (get_user_names).
// Only the bare-list response shape is accepted.
func (c *TautulliClient) GetUserNames(ctx context.Context) ([]tautulli.Record, error) {
	resp, err := c.callTautulliAPI(ctx, "get_user_names", nil)
	if err != nil {
		return nil, err
	}
	return tautulli.Records(resp.Data, ""), nil
}

// GetUserPlayerStats retrieves per-player statistics for a user
// (get_user_player_stats). One row per player the user has streamed from.
func (c *TautulliClient) GetUserPlayerStats(ctx context.Context, userID string) ([]tautulli.Record, error) {
	params := url.Values{}
	params.Set("user_id", userID)

	resp, err := c.callTautulliAPI(ctx, "get_user_player_stats", params)
	if err != nil {
		return nil, err
	}
	return tautulli.Records(resp.Data, tautulli.KeyPlayers), nil
}

// GetUserIPs retrieves one page of a user's IP address table (get_user_ips).
func (c *TautulliClient) GetUserIPs(ctx context.Context, userID string, start, length int) ([]tautulli.Record, error) {
	resp, err := c.callTautulliAPI(ctx, "get_user_ips", pageParams(userID, start, length))
	if err != nil {
		return nil, err
	}
	return tautulli.Records(resp.Data, tautulli.KeyData), nil
}
