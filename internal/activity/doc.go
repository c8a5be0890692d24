// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

/*
Package activity is the aggregation engine behind every report.

It turns loosely-typed Tautulli rows into typed values and folds them into
ranked per-key statistics. Nothing here performs I/O; the report package
feeds it rows fetched by the source package.

# Components

  - Normalizer (normalize.go): raw rows to User, ActivityRecord, IP strings
    and timestamps. Malformed values coerce to zero or empty, never errors.
  - Device labels (device.go): two labeling policies, one for player-stat
    rows (summary) and one for history rows (detail).
  - Aggregator (aggregate.go): folds (key, timestamp) pairs into StatBucket
    values holding play count and last-seen time.
  - Ranker (rank.go): total order over buckets and the selectable summary
    user orders.
  - Inactivity (inactivity.go): classifies a user's most recent activity
    against a trailing N-day cutoff.
  - Matcher (match.go): case-insensitive substring match on display names.

# Timestamps

Timestamps are Unix seconds. Zero means unknown: it never raises a bucket's
LastSeen, it classifies a user as never active, and it sorts as the oldest
possible time.

# Example

	agg := activity.NewAggregator()
	for _, row := range history {
	    rec := activity.NormalizeHistoryRow(row)
	    agg.Add(rec.IPAddress, rec.Timestamp)
	}
	for _, b := range activity.Rank(agg.Buckets()) {
	    fmt.Println(b.Key, b.PlayCount, b.LastSeen)
	}
*/
package activity
