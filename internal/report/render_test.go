// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwaboy/tautulli-snitch/internal/activity"
)

func renderString(t *testing.T, format Format, rep Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(format, time.UTC).Render(&buf, rep))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("csv")
	assert.ErrorContains(t, err, `unknown output format "csv"`)
}

func TestNewRenderer_DefaultsToLocal(t *testing.T) {
	t.Parallel()

	r := NewRenderer(FormatTable, nil)
	assert.Equal(t, time.Local, r.loc)
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	rep := &SummaryReport{
		Mode:        ModeSummary,
		Sort:        activity.SortByDevices,
		GeneratedAt: fixedNow,
		UsersFound:  2,
		FetchErrors: 1,
		Users: []activity.UserSummary{
			{User: activity.User{ID: "1", Name: "A Rather Long Display Name That Overflows"}, DeviceEntries: 7, UniqueIPs: 3},
			{User: activity.User{ID: "2", Name: "bob"}, DeviceEntries: 0, UniqueIPs: 0},
		},
	}

	out := renderString(t, FormatTable, rep)
	assert.True(t, strings.HasPrefix(out, "Found 2 users\n"))
	assert.Contains(t, out, "USER")
	assert.Contains(t, out, "UNIQUE IPS")
	assert.Contains(t, out, "A Rather Long Display Name T ")
	assert.NotContains(t, out, "Overflows")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Note: 1 request(s) failed")
}

func TestRenderSummary_Empty(t *testing.T) {
	t.Parallel()

	out := renderString(t, FormatTable, &SummaryReport{Mode: ModeSummary})
	assert.Equal(t, "Found 0 users\nNo results to display (0 users or all calls failed).\n", out)
}

func TestRenderDetail(t *testing.T) {
	t.Parallel()

	rep := &DetailReport{
		Mode:   ModeDetail,
		Filter: "ali",
		Matches: []UserDetail{
			{
				User:        activity.User{ID: "1", Name: "Alice"},
				HistoryRows: 3,
				IPs: []activity.StatBucket{
					{Key: "10.0.0.1", PlayCount: 2, LastSeen: 1_700_000_000},
				},
				Devices: []activity.StatBucket{
					{Key: "Unknown player", PlayCount: 3, LastSeen: 0},
				},
			},
			{
				User:        activity.User{ID: "9", Name: "Malice"},
				FetchFailed: true,
				IPs:         []activity.StatBucket{},
				Devices:     []activity.StatBucket{},
			},
		},
	}

	out := renderString(t, FormatTable, rep)
	assert.True(t, strings.HasPrefix(out, "Found 2 user(s) matching \"ali\"\n"))
	assert.Contains(t, out, "\nUser: Alice (ID: 1)\n  History rows loaded: 3\n  IP addresses (by plays):\n")
	assert.Contains(t, out, "10.0.0.1")
	assert.Contains(t, out, "2023-11-14 22:13:20")
	assert.Contains(t, out, "  Devices (by plays):\n")
	assert.Contains(t, out, "unknown", "a zero last seen renders as unknown")

	assert.Contains(t, out, "\nUser: Malice (ID: 9)\n  History could not be loaded\n")
	assert.Contains(t, out, "  IP addresses: none recorded\n  Devices: none recorded\n")
}

func TestRenderDetail_NoMatches(t *testing.T) {
	t.Parallel()

	out := renderString(t, FormatTable, &DetailReport{Mode: ModeDetail, Filter: "zelda"})
	assert.Equal(t, "Found 0 user(s) matching \"zelda\"\nNo users matched that filter.\n", out)
}

func TestRenderInactive(t *testing.T) {
	t.Parallel()

	now := fixedNow.Unix()
	day := int64(activity.SecondsPerDay)

	rep := &InactiveReport{
		Mode:        ModeInactive,
		Days:        1,
		Cutoff:      now - day,
		GeneratedAt: fixedNow,
		UsersFound:  5,
		Inactive: []activity.InactiveUser{
			{User: activity.User{ID: "3", Name: "ghost"}, Status: activity.StatusNever},
			{User: activity.User{ID: "2", Name: "sleepy"}, LastActivity: now - 3*day, Status: activity.StatusStale},
		},
	}

	out := renderString(t, FormatTable, rep)
	assert.Contains(t, out, "Found 5 users\n2 user(s) with no activity in the last 1 days (since 2023-11-13 22:13:20)\n")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "2023-11-11 22:13:20 (3 days ago)")
	assert.Less(t, strings.Index(out, "ghost"), strings.Index(out, "sleepy"))
}

func TestRenderInactive_AllActive(t *testing.T) {
	t.Parallel()

	out := renderString(t, FormatTable, &InactiveReport{Mode: ModeInactive, Days: 30, UsersFound: 4})
	assert.Equal(t, "Found 4 users\nAll users have activity in the last 30 days.\n", out)
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	rep := &SummaryReport{
		Mode:        ModeSummary,
		Sort:        activity.SortByName,
		GeneratedAt: fixedNow,
		UsersFound:  1,
		Users: []activity.UserSummary{
			{User: activity.User{ID: "1", Name: "Alice"}, DeviceEntries: 2, UniqueIPs: 1, Devices: []string{"Roku", "Roku"}},
		},
	}

	out := renderString(t, FormatJSON, rep)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "summary", decoded["mode"])
	assert.Equal(t, "name", decoded["sort"])
	assert.EqualValues(t, 1, decoded["users_found"])

	users, ok := decoded["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 1)
	user := users[0].(map[string]any)
	assert.Equal(t, "1", user["user_id"])
	assert.Equal(t, "Alice", user["name"])
	assert.EqualValues(t, 2, user["device_entries"])
	assert.EqualValues(t, 1, user["unique_ips"])
}

func TestRenderJSON_DetailKeepsEmptyBuckets(t *testing.T) {
	t.Parallel()

	rep := &DetailReport{
		Mode:    ModeDetail,
		Filter:  "x",
		Matches: []UserDetail{{User: activity.User{ID: "1", Name: "x"}, FetchFailed: true, IPs: []activity.StatBucket{}, Devices: []activity.StatBucket{}}},
	}

	out := renderString(t, FormatJSON, rep)
	assert.Contains(t, out, `"fetch_failed": true`)
	assert.Contains(t, out, `"ips": []`)
	assert.Contains(t, out, `"devices": []`)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	t.Parallel()

	err := NewRenderer(FormatTable, time.UTC).Render(failingWriter{}, &SummaryReport{Mode: ModeSummary})
	assert.ErrorContains(t, err, "failed to write summary report")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncate("abc", 28))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "日本", truncate("日本語", 2))
}
