// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package report

import (
	"time"

	"github.com/schwaboy/tautulli-snitch/internal/activity"
)

// Mode names a report type.
type Mode string

const (
	ModeSummary  Mode = "summary"
	ModeDetail   Mode = "detail"
	ModeInactive Mode = "inactive"
)

// Report is implemented by the three report types.
type Report interface {
	ReportMode() Mode
}

// SummaryReport lists every user with their device entries and unique IPs.
type SummaryReport struct {
	Mode        Mode                   `json:"mode"`
	Sort        activity.SortMode      `json:"sort"`
	GeneratedAt time.Time              `json:"generated_at"`
	UsersFound  int                    `json:"users_found"`
	FetchErrors int                    `json:"fetch_errors"`
	Users       []activity.UserSummary `json:"users"`
}

// ReportMode implements Report.
func (r *SummaryReport) ReportMode() Mode { return ModeSummary }

// UserDetail is one matched user in a detail report.
type UserDetail struct {
	User        activity.User         `json:"user"`
	HistoryRows int                   `json:"history_rows"`
	FetchFailed bool                  `json:"fetch_failed,omitempty"`
	IPs         []activity.StatBucket `json:"ips"`
	Devices     []activity.StatBucket `json:"devices"`
}

// DetailReport holds ranked breakdowns for the users matching Filter.
type DetailReport struct {
	Mode        Mode         `json:"mode"`
	Filter      string       `json:"filter"`
	GeneratedAt time.Time    `json:"generated_at"`
	UsersFound  int          `json:"users_found"`
	FetchErrors int          `json:"fetch_errors"`
	Matches     []UserDetail `json:"matches"`
}

// ReportMode implements Report.
func (r *DetailReport) ReportMode() Mode { return ModeDetail }

// InactiveReport lists users with no activity since Cutoff.
type InactiveReport struct {
	Mode        Mode                    `json:"mode"`
	Days        int                     `json:"days"`
	Cutoff      int64                   `json:"cutoff"`
	GeneratedAt time.Time               `json:"generated_at"`
	UsersFound  int                     `json:"users_found"`
	FetchErrors int                     `json:"fetch_errors"`
	Inactive    []activity.InactiveUser `json:"inactive"`
}

// ReportMode implements Report.
func (r *InactiveReport) ReportMode() Mode { return ModeInactive }
