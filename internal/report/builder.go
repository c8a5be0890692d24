// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/schwaboy/tautulli-snitch/internal/activity"
	"github.com/schwaboy/tautulli-snitch/internal/logging"
	"github.com/schwaboy/tautulli-snitch/internal/metrics"
	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// ErrListUsers wraps a failure to fetch the user list. No report can be
// built without it, so it is fatal for the run.
var ErrListUsers = errors.New("failed to list users")

// Default page lengths, used when Options leaves them unset.
const (
	DefaultHistoryLength = 100000
	DefaultIPTableLength = 10000
)

// Source is the Tautulli data the builder needs.
// source.TautulliClientInterface satisfies it.
type Source interface {
	GetUserNames(ctx context.Context) ([]tautulli.Record, error)
	GetUserPlayerStats(ctx context.Context, userID string) ([]tautulli.Record, error)
	GetUserIPs(ctx context.Context, userID string, start, length int) ([]tautulli.Record, error)
	GetHistory(ctx context.Context, userID string, start, length, grouping int) ([]tautulli.Record, error)
}

// Options configures a Builder.
type Options struct {
	// HistoryLength is the history page length requested per user in detail mode.
	HistoryLength int

	// IPTableLength is the IP table page length requested per user in summary mode.
	IPTableLength int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Builder runs the three report modes against a Source. Calls are made one
// user at a time; a failed per-user fetch is logged and that user
// contributes no data.
type Builder struct {
	src  Source
	opts Options
}

// NewBuilder creates a Builder, filling unset options with defaults.
func NewBuilder(src Source, opts Options) *Builder {
	if opts.HistoryLength <= 0 {
		opts.HistoryLength = DefaultHistoryLength
	}
	if opts.IPTableLength <= 0 {
		opts.IPTableLength = DefaultIPTableLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{src: src, opts: opts}
}

// fetch names a per-user request in logs.
type fetch string

const (
	fetchPlayerStats fetch = "player_stats"
	fetchIPs         fetch = "ips"
	fetchHistory     fetch = "history"
)

// run tracks one report call.
type run struct {
	logger      zerolog.Logger
	mode        Mode
	started     time.Time
	fetchErrors int
}

func (b *Builder) newRun(ctx context.Context, mode Mode) *run {
	return &run{
		logger:  logging.CtxComponent(ctx, "report").With().Str("mode", string(mode)).Logger(),
		mode:    mode,
		started: time.Now(),
	}
}

// failed records a per-user fetch failure.
func (r *run) failed(user activity.User, what fetch, err error) {
	r.fetchErrors++
	r.logger.Error().
		Err(err).
		Str("user_id", user.ID).
		Str("user", user.Name).
		Str("fetch", string(what)).
		Msg("Fetch failed, treating as no data")
}

// finish records the run. users is the number of listed users in every mode.
func (r *run) finish(users int) {
	duration := time.Since(r.started)
	metrics.RecordReport(string(r.mode), duration, users, r.fetchErrors)
	r.logger.Info().
		Int("users", users).
		Int("fetch_errors", r.fetchErrors).
		Dur("duration", duration).
		Msg("Report built")
}

// listUsers fetches and normalizes the user list.
func (b *Builder) listUsers(ctx context.Context, r *run) ([]activity.User, error) {
	rows, err := b.src.GetUserNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListUsers, err)
	}

	users := activity.NormalizeUsers(rows)
	if dropped := len(rows) - len(users); dropped > 0 {
		for i := 0; i < dropped; i++ {
			metrics.RecordDroppedRecord(string(activity.KindUser))
		}
		r.logger.Warn().Int("dropped", dropped).Msg("Skipped users without a user_id")
	}

	r.logger.Debug().Int("users", len(users)).Msg("Loaded user list")
	return users, nil
}

// Summary builds the per-user device and unique IP report. Every listed
// user appears, with zero counts when their fetches failed.
func (b *Builder) Summary(ctx context.Context, sort activity.SortMode) (*SummaryReport, error) {
	r := b.newRun(ctx, ModeSummary)

	users, err := b.listUsers(ctx, r)
	if err != nil {
		return nil, err
	}

	rows := make([]activity.UserSummary, 0, len(users))
	for _, u := range users {
		rows = append(rows, b.summarizeUser(ctx, r, u))
	}
	activity.SortSummaries(rows, sort)

	r.finish(len(users))
	return &SummaryReport{
		Mode:        ModeSummary,
		Sort:        sort,
		GeneratedAt: b.opts.Now(),
		UsersFound:  len(users),
		FetchErrors: r.fetchErrors,
		Users:       rows,
	}, nil
}

func (b *Builder) summarizeUser(ctx context.Context, r *run, u activity.User) activity.UserSummary {
	row := activity.UserSummary{User: u}

	players, err := b.src.GetUserPlayerStats(ctx, u.ID)
	if err != nil {
		r.failed(u, fetchPlayerStats, err)
		players = nil
	}
	row.Devices = make([]string, 0, len(players))
	for _, p := range players {
		row.Devices = append(row.Devices, activity.NormalizePlayerStat(p))
	}
	row.DeviceEntries = len(row.Devices)

	ipRows, err := b.src.GetUserIPs(ctx, u.ID, 0, b.opts.IPTableLength)
	if err != nil {
		r.failed(u, fetchIPs, err)
		ipRows = nil
	}
	unique := activity.NewAggregator()
	for _, ipRow := range ipRows {
		ip, ok := activity.NormalizeIPRow(ipRow)
		if !ok {
			metrics.RecordDroppedRecord(string(activity.KindIPRow))
			continue
		}
		unique.Add(ip, 0)
	}
	row.UniqueIPs = unique.Len()

	return row
}

// Detail builds ranked IP and device breakdowns for every user whose name
// contains filter. An invalid filter is reported before any request.
func (b *Builder) Detail(ctx context.Context, filter string) (*DetailReport, error) {
	if err := activity.ValidateFilter(filter); err != nil {
		return nil, err
	}

	r := b.newRun(ctx, ModeDetail)

	users, err := b.listUsers(ctx, r)
	if err != nil {
		return nil, err
	}

	matches, err := activity.Match(users, filter)
	if err != nil {
		return nil, err
	}

	details := make([]UserDetail, 0, len(matches))
	for _, u := range matches {
		details = append(details, b.detailUser(ctx, r, u))
	}

	r.finish(len(users))
	return &DetailReport{
		Mode:        ModeDetail,
		Filter:      filter,
		GeneratedAt: b.opts.Now(),
		UsersFound:  len(users),
		FetchErrors: r.fetchErrors,
		Matches:     details,
	}, nil
}

func (b *Builder) detailUser(ctx context.Context, r *run, u activity.User) UserDetail {
	detail := UserDetail{
		User:    u,
		IPs:     []activity.StatBucket{},
		Devices: []activity.StatBucket{},
	}

	rows, err := b.src.GetHistory(ctx, u.ID, 0, b.opts.HistoryLength, 0)
	if err != nil {
		r.failed(u, fetchHistory, err)
		detail.FetchFailed = true
		return detail
	}

	ips := make([]activity.KeyedTimestamp, 0, len(rows))
	devices := make([]activity.KeyedTimestamp, 0, len(rows))
	for _, row := range rows {
		rec := activity.NormalizeHistoryRow(row)
		ips = append(ips, activity.KeyedTimestamp{Key: rec.IPAddress, Timestamp: rec.Timestamp})
		devices = append(devices, activity.KeyedTimestamp{Key: rec.DeviceLabel, Timestamp: rec.Timestamp})
	}

	detail.HistoryRows = len(rows)
	detail.IPs = activity.Rank(activity.Fold(ips))
	detail.Devices = activity.Rank(activity.Fold(devices))
	return detail
}

// Inactive lists users with no activity in the trailing days-day window,
// never-active and longest-inactive first. A user whose history could not
// be fetched has no known activity and is reported as never active.
func (b *Builder) Inactive(ctx context.Context, days int) (*InactiveReport, error) {
	if err := activity.ValidateDays(days); err != nil {
		return nil, err
	}

	r := b.newRun(ctx, ModeInactive)

	users, err := b.listUsers(ctx, r)
	if err != nil {
		return nil, err
	}

	now := b.opts.Now()
	inactive := make([]activity.InactiveUser, 0)
	for _, u := range users {
		latest := b.latestActivity(ctx, r, u)
		if rec, ok := activity.Classify(u, latest, days, now.Unix()); ok {
			inactive = append(inactive, rec)
		}
	}
	activity.SortInactive(inactive)

	r.finish(len(users))
	return &InactiveReport{
		Mode:        ModeInactive,
		Days:        days,
		Cutoff:      activity.Cutoff(days, now.Unix()),
		GeneratedAt: now,
		UsersFound:  len(users),
		FetchErrors: r.fetchErrors,
		Inactive:    inactive,
	}, nil
}

// latestActivity returns the timestamp of the user's most recent history
// row, or 0 when there is none or it cannot be fetched.
func (b *Builder) latestActivity(ctx context.Context, r *run, u activity.User) int64 {
	rows, err := b.src.GetHistory(ctx, u.ID, 0, 1, 0)
	if err != nil {
		r.failed(u, fetchHistory, err)
		return 0
	}
	if len(rows) == 0 {
		return 0
	}
	return activity.Timestamp(rows[0])
}
