// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package tautulli

// Envelope represents the outer shape of every Tautulli API v2 response
type Envelope struct {
	Response Response `json:"response"`
}

// Response is the command result inside the envelope. Data is left untyped
// because the same command answers with a bare list or a wrapping object
// depending on the Tautulli version.
type Response struct {
	Result  string  `json:"result"`
	Message *string `json:"message,omitempty"`
	Data    any     `json:"data"`
}

// ResultSuccess is the Result value of a successful command.
const ResultSuccess = "success"

// Success reports whether the command succeeded.
func (r *Response) Success() bool {
	return r.Result == ResultSuccess
}

// ErrorMessage returns the server-supplied message, or "unknown error"
// when the server sent none.
func (r *Response) ErrorMessage() string {
	if r.Message == nil || *r.Message == "" {
		return "unknown error"
	}
	return *r.Message
}

// Record is one loosely-typed row from a Tautulli list response. Field types
// vary between Tautulli versions (user_id arrives as a number or a string,
// timestamps as numbers, strings or null), so rows are kept as decoded maps
// and typed later by the activity normalizer.
type Record map[string]any

// Wrapper keys used by list-returning commands.
const (
	KeyPlayers = "players" // get_user_player_stats
	KeyData    = "data"    // get_user_ips, get_history
)

// Records extracts the rows of a list response. data may be a bare JSON
// array or an object holding the array under wrapKey; an empty wrapKey
// accepts only the bare form. Any other shape yields no rows, and array
// elements that are not objects are skipped.
func Records(data any, wrapKey string) []Record {
	var items []any

	switch v := data.(type) {
	case []any:
		items = v
	case map[string]any:
		if wrapKey == "" {
			return nil
		}
		inner, ok := v[wrapKey].([]any)
		if !ok {
			return nil
		}
		items = inner
	default:
		return nil
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, Record(m))
		}
	}
	return records
}
