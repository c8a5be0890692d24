// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package report

import (
	"context"
	"fmt"

	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// fakeSource serves canned rows per user and records every call.
type fakeSource struct {
	users    []tautulli.Record
	usersErr error

	players    map[string][]tautulli.Record
	playersErr map[string]error
	ips        map[string][]tautulli.Record
	ipsErr     map[string]error
	history    map[string][]tautulli.Record
	historyErr map[string]error

	calls []string
}

var _ Source = (*fakeSource)(nil)

func (f *fakeSource) GetUserNames(context.Context) ([]tautulli.Record, error) {
	f.calls = append(f.calls, "get_user_names")
	return f.users, f.usersErr
}

func (f *fakeSource) GetUserPlayerStats(_ context.Context, userID string) ([]tautulli.Record, error) {
	f.calls = append(f.calls, "get_user_player_stats:"+userID)
	if err := f.playersErr[userID]; err != nil {
		return nil, err
	}
	return f.players[userID], nil
}

func (f *fakeSource) GetUserIPs(_ context.Context, userID string, start, length int) ([]tautulli.Record, error) {
	f.calls = append(f.calls, fmt.Sprintf("get_user_ips:%s:%d:%d", userID, start, length))
	if err := f.ipsErr[userID]; err != nil {
		return nil, err
	}
	return page(f.ips[userID], start, length), nil
}

func (f *fakeSource) GetHistory(_ context.Context, userID string, start, length, grouping int) ([]tautulli.Record, error) {
	f.calls = append(f.calls, fmt.Sprintf("get_history:%s:%d:%d:%d", userID, start, length, grouping))
	if err := f.historyErr[userID]; err != nil {
		return nil, err
	}
	return page(f.history[userID], start, length), nil
}

func page(rows []tautulli.Record, start, length int) []tautulli.Record {
	if start >= len(rows) {
		return nil
	}
	end := min(start+length, len(rows))
	return rows[start:end]
}
