// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package activity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/schwaboy/tautulli-snitch/internal/validation"
)

// MaxFilterLength is the longest accepted user filter, in characters.
const MaxFilterLength = 255

var (
	// ErrInvalidFilter is returned for an empty or over-long user filter.
	ErrInvalidFilter = errors.New("invalid user filter")

	// ErrInvalidDays is returned for an --inactive value that is not an
	// integer in [MinInactiveDays, MaxInactiveDays].
	ErrInvalidDays = errors.New("invalid inactivity window")
)

type filterArgs struct {
	Filter string `name:"--user" validate:"required,max=255"`
}

type inactiveArgs struct {
	Days int `name:"--inactive" validate:"min=1,max=36500"`
}

// ValidateFilter checks a user filter. The returned error wraps both
// ErrInvalidFilter and a *validation.RequestValidationError.
func ValidateFilter(filter string) error {
	if verr := validation.ValidateStruct(&filterArgs{Filter: filter}); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, verr)
	}
	return nil
}

// ParseInactiveDays parses and checks an --inactive value. The returned
// error wraps both ErrInvalidDays and a *validation.RequestValidationError.
func ParseInactiveDays(raw string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		verr := validation.NewRequestValidationError("--inactive", "integer",
			fmt.Sprintf("--inactive must be a whole number of days, got %q", raw), raw)
		return 0, fmt.Errorf("%w: %w", ErrInvalidDays, verr)
	}
	if err := ValidateDays(days); err != nil {
		return 0, err
	}
	return days, nil
}

// ValidateDays checks an inactivity window in days.
func ValidateDays(days int) error {
	if verr := validation.ValidateStruct(&inactiveArgs{Days: days}); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDays, verr)
	}
	return nil
}

// Match returns the users whose display name contains filter, ignoring
// case, in their original order.
func Match(users []User, filter string) ([]User, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}

	target := strings.ToLower(filter)
	var matches []User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), target) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}
