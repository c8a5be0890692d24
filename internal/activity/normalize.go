// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// Kind identifies the shape of a raw Tautulli row.
type Kind string

const (
	KindUser       Kind = "user"
	KindPlayerStat Kind = "player_stat"
	KindIPRow      Kind = "ip_row"
	KindHistoryRow Kind = "history_row"
)

// User is a Tautulli user as shown in reports.
type User struct {
	ID   string `json:"user_id"`
	Name string `json:"name"`
}

// ActivityRecord is one normalized history row.
type ActivityRecord struct {
	Timestamp   int64  `json:"timestamp"`
	IPAddress   string `json:"ip_address,omitempty"`
	DeviceLabel string `json:"device_label"`
}

// timestampFields are tried in order; the first truthy value wins.
var timestampFields = []string{"date", "started", "stopped"}

// NormalizeUser converts a get_user_names row. Rows without a user_id are
// rejected since no per-user command can be issued for them.
func NormalizeUser(r tautulli.Record) (User, bool) {
	id := userID(r["user_id"])
	if id == "" {
		return User{}, false
	}

	name := String(r["friendly_name"])
	if name == "" {
		name = String(r["username"])
	}
	if name == "" {
		name = "User " + id
	}

	return User{ID: id, Name: name}, true
}

// NormalizeUsers converts a user list, preserving order and skipping rows
// NormalizeUser rejects.
func NormalizeUsers(rows []tautulli.Record) []User {
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		if u, ok := NormalizeUser(r); ok {
			users = append(users, u)
		}
	}
	return users
}

// NormalizeIPRow returns the address of a get_user_ips row, or false when
// the row has none.
func NormalizeIPRow(r tautulli.Record) (string, bool) {
	ip := String(r["ip_address"])
	return ip, ip != ""
}

// NormalizePlayerStat returns the summary device label of a player-stat row.
// Every row counts as one device entry.
func NormalizePlayerStat(r tautulli.Record) string {
	return SummaryLabel(r)
}

// NormalizeHistoryRow converts a get_history row. Every row is accepted;
// a missing IP address is left empty and skipped by the aggregator.
func NormalizeHistoryRow(r tautulli.Record) ActivityRecord {
	return ActivityRecord{
		Timestamp:   Timestamp(r),
		IPAddress:   String(r["ip_address"]),
		DeviceLabel: DetailLabel(r),
	}
}

// Timestamp returns the first truthy of date, started and stopped coerced
// to an integer. A truthy value that is not numeric yields 0 rather than
// falling through to the next field.
func Timestamp(r tautulli.Record) int64 {
	for _, field := range timestampFields {
		if v := r[field]; truthy(v) {
			return Int(v)
		}
	}
	return 0
}

// Int coerces a decoded JSON value to an integer. Integers and base-10
// integer strings (surrounding whitespace allowed) convert directly, floats
// truncate toward zero and booleans are 1 or 0. Anything else is 0.
func Int(v any) int64 {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return truncate(f)
		}
		return 0
	case float64:
		return truncate(x)
	case int:
		return int64(x)
	case int64:
		return x
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// truncate converts f toward zero, mapping NaN and out-of-range values to 0.
func truncate(f float64) int64 {
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}

// String coerces a decoded JSON value to text. Strings are returned as-is,
// numbers as their literal text and true as "true". Anything else is "".
func String(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// userID renders a raw user_id. Integral numbers are formatted without a
// fractional part so 42 and 42.0 name the same user.
func userID(v any) string {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := x.Float64(); err == nil && f == math.Trunc(f) {
			return strconv.FormatInt(truncate(f), 10)
		}
		return x.String()
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(truncate(x), 10)
		}
		return String(x)
	case string:
		return strings.TrimSpace(x)
	default:
		return String(x)
	}
}

// truthy reports whether a decoded JSON value counts as present: non-null,
// non-zero numbers, non-empty strings and collections, and true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
