// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

// StatBucket holds the running statistics of one IP address or device label.
// PlayCount is the number of records folded into the bucket and LastSeen the
// largest timestamp among them (0 when none was known).
type StatBucket struct {
	Key       string `json:"key"`
	PlayCount int    `json:"play_count"`
	LastSeen  int64  `json:"last_seen"`
}

// KeyedTimestamp is one input to Fold.
type KeyedTimestamp struct {
	Key       string
	Timestamp int64
}

// Aggregator folds (key, timestamp) pairs into StatBuckets.
// The zero value is not usable; call NewAggregator.
type Aggregator struct {
	buckets map[string]*StatBucket
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[string]*StatBucket)}
}

// Add folds one record. An empty key is ignored and creates no bucket.
func (a *Aggregator) Add(key string, ts int64) {
	if key == "" {
		return
	}

	b, ok := a.buckets[key]
	if !ok {
		b = &StatBucket{Key: key}
		a.buckets[key] = b
	}

	b.PlayCount++
	if ts > b.LastSeen {
		b.LastSeen = ts
	}
}

// Len returns the number of distinct keys seen.
func (a *Aggregator) Len() int {
	return len(a.buckets)
}

// Buckets returns a snapshot of the accumulated buckets keyed by Key.
func (a *Aggregator) Buckets() map[string]StatBucket {
	out := make(map[string]StatBucket, len(a.buckets))
	for k, b := range a.buckets {
		out[k] = *b
	}
	return out
}

// Fold aggregates records into a fresh set of buckets.
func Fold(records []KeyedTimestamp) map[string]StatBucket {
	agg := NewAggregator()
	for _, r := range records {
		agg.Add(r.Key, r.Timestamp)
	}
	return agg.Buckets()
}
