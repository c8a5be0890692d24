// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package source

import (
	"io"
	"net/url"
	"strconv"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// pageParams builds the user-scoped paging parameters shared by
// get_user_ips and get_history.
func pageParams(userID string, start, length int) url.Values {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("start", strconv.Itoa(start))
	params.Set("length", strconv.Itoa(length))
	return params
}

// redactedQuery returns the encoded query with the API key removed, for logs.
func redactedQuery(params url.Values) string {
	safe := url.Values{}
	for k, v := range params {
		if k == "apikey" {
			continue
		}
		safe[k] = v
	}
	return safe.Encode()
}
