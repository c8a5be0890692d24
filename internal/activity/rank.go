// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Rank orders buckets by play count descending, then last seen descending,
// then key ascending. Keys are unique, so the order is total.
func Rank(buckets map[string]StatBucket) []StatBucket {
	ranked := make([]StatBucket, 0, len(buckets))
	for key, b := range buckets {
		b.Key = key
		ranked = append(ranked, b)
	}
	slices.SortFunc(ranked, CompareBuckets)
	return ranked
}

// CompareBuckets is the ranking comparator used by Rank.
func CompareBuckets(a, b StatBucket) int {
	if c := cmp.Compare(b.PlayCount, a.PlayCount); c != 0 {
		return c
	}
	if c := cmp.Compare(b.LastSeen, a.LastSeen); c != 0 {
		return c
	}
	return strings.Compare(a.Key, b.Key)
}

// UserSummary is one row of the summary report.
type UserSummary struct {
	User
	DeviceEntries int      `json:"device_entries"`
	UniqueIPs     int      `json:"unique_ips"`
	Devices       []string `json:"devices,omitempty"`
}

// SortMode selects the summary user order.
type SortMode string

const (
	// SortByName orders by display name, case-insensitively.
	SortByName SortMode = "name"
	// SortByDevices orders by device entries descending, then name.
	SortByDevices SortMode = "devices"
	// SortByIPs orders by unique IPs descending, then name.
	SortByIPs SortMode = "ips"
)

// SortModes lists the accepted sort modes.
var SortModes = []SortMode{SortByName, SortByDevices, SortByIPs}

// ParseSortMode validates a --sort value.
func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(s)
	if !slices.Contains(SortModes, mode) {
		return "", fmt.Errorf("unknown sort mode %q (want name, devices or ips)", s)
	}
	return mode, nil
}

// SortSummaries orders rows in place. The sort is stable, so rows that
// compare equal keep their user-list order.
func SortSummaries(rows []UserSummary, mode SortMode) {
	byName := func(a, b UserSummary) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}

	switch mode {
	case SortByName:
		slices.SortStableFunc(rows, byName)
	case SortByIPs:
		slices.SortStableFunc(rows, func(a, b UserSummary) int {
			if c := cmp.Compare(b.UniqueIPs, a.UniqueIPs); c != 0 {
				return c
			}
			return byName(a, b)
		})
	default:
		slices.SortStableFunc(rows, func(a, b UserSummary) int {
			if c := cmp.Compare(b.DeviceEntries, a.DeviceEntries); c != 0 {
				return c
			}
			return byName(a, b)
		})
	}
}
