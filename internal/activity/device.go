// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

import (
	"strings"

	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

const (
	// LabelSeparator joins label segments.
	LabelSeparator = " / "

	// UnknownDevice is the summary label of a row with no identifying fields.
	UnknownDevice = "Unknown device"

	// UnknownPlayer leads a detail label when the row has no player.
	UnknownPlayer = "Unknown player"
)

// Player-stat rows and history rows expose different fields, so each
// policy has its own field order.
var (
	summaryLabelFields = []string{"player", "product", "platform", "device"}
	detailLabelFields  = []string{"platform", "product"}
)

// SummaryLabel labels a player-stat row: the non-empty values of player,
// product, platform and device joined with LabelSeparator, or UnknownDevice.
func SummaryLabel(r tautulli.Record) string {
	parts := make([]string, 0, len(summaryLabelFields))
	for _, field := range summaryLabelFields {
		if v := String(r[field]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return UnknownDevice
	}
	return strings.Join(parts, LabelSeparator)
}

// DetailLabel labels a history row: player (or UnknownPlayer), then the
// non-empty values of platform and product.
func DetailLabel(r tautulli.Record) string {
	player := String(r["player"])
	if player == "" {
		player = UnknownPlayer
	}

	parts := []string{player}
	for _, field := range detailLabelFields {
		if v := String(r[field]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, LabelSeparator)
}
