// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

import (
	"cmp"
	"slices"
)

// SecondsPerDay is the length of one inactivity day.
const SecondsPerDay = 86400

// Bounds of the --inactive window, in days.
const (
	MinInactiveDays = 1
	MaxInactiveDays = 36500
)

// Status says why a user is inactive.
type Status string

const (
	// StatusNever means no activity timestamp is known.
	StatusNever Status = "never"
	// StatusStale means the latest activity is older than the cutoff.
	StatusStale Status = "stale"
)

// InactiveUser is one row of the inactivity report.
type InactiveUser struct {
	User         User   `json:"user"`
	LastActivity int64  `json:"last_activity"`
	Status       Status `json:"status"`
}

// Cutoff returns the oldest timestamp still counted as active.
func Cutoff(days int, now int64) int64 {
	return now - int64(days)*SecondsPerDay
}

// Classify reports whether user is inactive given their most recent
// activity. It returns false for an active user. A zero timestamp is
// unknown and classifies as StatusNever; any other timestamp is compared
// against the cutoff, which lies before the epoch for long windows.
func Classify(user User, mostRecent int64, days int, now int64) (InactiveUser, bool) {
	if mostRecent == 0 {
		return InactiveUser{User: user, LastActivity: 0, Status: StatusNever}, true
	}
	if mostRecent < Cutoff(days, now) {
		return InactiveUser{User: user, LastActivity: mostRecent, Status: StatusStale}, true
	}
	return InactiveUser{}, false
}

// SortInactive orders users by last activity ascending, so never-active
// users come first and the longest-inactive follow. Ties keep input order.
func SortInactive(users []InactiveUser) {
	slices.SortStableFunc(users, func(a, b InactiveUser) int {
		return cmp.Compare(a.LastActivity, b.LastActivity)
	})
}
