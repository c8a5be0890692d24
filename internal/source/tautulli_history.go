// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package source

import (
	"context"
	"strconv"

	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// GetHistory retrieves one page of a user's playback history (get_history),
// newest first. grouping=0 returns one row per play instead of grouping
// consecutive plays of the same item.
func (c *TautulliClient) GetHistory(ctx context.Context, userID string, start, length, grouping int) ([]tautulli.Record, error) {
	params := pageParams(userID, start, length)
	params.Set("grouping", strconv.Itoa(grouping))
	params.Set("order_column", "date")
	params.Set("order_dir", "desc")

	resp, err := c.callTautulliAPI(ctx, "get_history", params)
	if err != nil {
		return nil, err
	}
	return tautulli.Records(resp.Data, tautulli.KeyData), nil
}
