// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	const now = int64(1_700_000_000)
	user := User{ID: "7", Name: "Grace"}

	for _, days := range []int{MinInactiveDays, 30, 365, MaxInactiveDays} {
		cutoff := now - int64(days)*SecondsPerDay
		assert.Equal(t, cutoff, Cutoff(days, now))

		got, inactive := Classify(user, 0, days, now)
		assert.True(t, inactive)
		assert.Equal(t, InactiveUser{User: user, LastActivity: 0, Status: StatusNever}, got)

		got, inactive = Classify(user, cutoff-1, days, now)
		assert.True(t, inactive, "days=%d: one second before the cutoff is stale", days)
		assert.Equal(t, InactiveUser{User: user, LastActivity: cutoff - 1, Status: StatusStale}, got)

		_, inactive = Classify(user, cutoff, days, now)
		assert.False(t, inactive, "days=%d: exactly the cutoff is active", days)

		_, inactive = Classify(user, cutoff+1, days, now)
		assert.False(t, inactive, "days=%d: one second after the cutoff is active", days)

		_, inactive = Classify(user, now, days, now)
		assert.False(t, inactive)
	}
}

func TestClassify_PreEpochCutoff(t *testing.T) {
	t.Parallel()

	const now = int64(1_700_000_000)
	user := User{ID: "1", Name: "Ada"}
	cutoff := Cutoff(MaxInactiveDays, now)
	assert.Negative(t, cutoff)

	tests := []struct {
		name       string
		mostRecent int64
		want       InactiveUser
		inactive   bool
	}{
		{name: "before cutoff", mostRecent: cutoff - 1, want: InactiveUser{User: user, LastActivity: cutoff - 1, Status: StatusStale}, inactive: true},
		{name: "at cutoff", mostRecent: cutoff},
		{name: "after cutoff", mostRecent: cutoff + 1},
		{name: "negative but inside window", mostRecent: -5},
		{name: "zero is unknown", mostRecent: 0, want: InactiveUser{User: user, Status: StatusNever}, inactive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, inactive := Classify(user, tt.mostRecent, MaxInactiveDays, now)
			assert.Equal(t, tt.inactive, inactive)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_NegativeTimestampBeforeCutoffIsStale(t *testing.T) {
	t.Parallel()

	got, inactive := Classify(User{ID: "1"}, -5, 30, 1_700_000_000)
	assert.True(t, inactive)
	assert.Equal(t, StatusStale, got.Status)
	assert.Equal(t, int64(-5), got.LastActivity)
}

func TestSortInactive(t *testing.T) {
	t.Parallel()

	users := []InactiveUser{
		{User: User{ID: "a"}, LastActivity: 300, Status: StatusStale},
		{User: User{ID: "b"}, LastActivity: 0, Status: StatusNever},
		{User: User{ID: "c"}, LastActivity: 100, Status: StatusStale},
		{User: User{ID: "d"}, LastActivity: 0, Status: StatusNever},
	}

	SortInactive(users)

	got := make([]string, 0, len(users))
	for _, u := range users {
		got = append(got, u.User.ID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, got)
}
