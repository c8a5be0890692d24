// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package report

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/schwaboy/tautulli-snitch/internal/activity"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatTable, FormatJSON}

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
	return f, nil
}

const (
	// maxNameWidth is the display-name width of the summary table.
	maxNameWidth = 28

	timestampLayout = "2006-01-02 15:04:05"
	unknownTime     = "unknown"
)

// Renderer writes reports to an io.Writer.
type Renderer struct {
	format Format
	loc    *time.Location
}

// NewRenderer creates a Renderer. Timestamps are shown in loc; nil means
// the local time zone.
func NewRenderer(format Format, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{format: format, loc: loc}
}

// Render writes rep in the configured format.
func (r *Renderer) Render(w io.Writer, rep Report) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode %s report: %w", rep.ReportMode(), err)
		}
		return nil
	}

	bw := bufio.NewWriter(w)
	switch v := rep.(type) {
	case *SummaryReport:
		r.summary(bw, v)
	case *DetailReport:
		r.detail(bw, v)
	case *InactiveReport:
		r.inactive(bw, v)
	default:
		return fmt.Errorf("unsupported report type %T", rep)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s report: %w", rep.ReportMode(), err)
	}
	return nil
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	return tw
}

func (r *Renderer) summary(w io.Writer, rep *SummaryReport) {
	fmt.Fprintf(w, "Found %d users\n", rep.UsersFound)
	if len(rep.Users) == 0 {
		fmt.Fprintln(w, "No results to display (0 users or all calls failed).")
		return
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"User", "Devices", "Unique IPs"})
	for _, u := range rep.Users {
		tw.AppendRow(table.Row{truncate(u.Name, maxNameWidth), u.DeviceEntries, u.UniqueIPs})
	}
	fmt.Fprintln(w, tw.Render())
	fetchErrorNote(w, rep.FetchErrors)
}

func (r *Renderer) detail(w io.Writer, rep *DetailReport) {
	fmt.Fprintf(w, "Found %d user(s) matching %q\n", len(rep.Matches), rep.Filter)
	if len(rep.Matches) == 0 {
		fmt.Fprintln(w, "No users matched that filter.")
		return
	}

	for _, m := range rep.Matches {
		fmt.Fprintf(w, "\nUser: %s (ID: %s)\n", m.User.Name, m.User.ID)
		if m.FetchFailed {
			fmt.Fprintln(w, "  History could not be loaded")
		} else {
			fmt.Fprintf(w, "  History rows loaded: %d\n", m.HistoryRows)
		}
		r.buckets(w, "IP addresses", "IP Address", m.IPs)
		r.buckets(w, "Devices", "Device", m.Devices)
	}
	fetchErrorNote(w, rep.FetchErrors)
}

func (r *Renderer) buckets(w io.Writer, title, keyHeader string, buckets []activity.StatBucket) {
	if len(buckets) == 0 {
		fmt.Fprintf(w, "  %s: none recorded\n", title)
		return
	}

	fmt.Fprintf(w, "  %s (by plays):\n", title)
	tw := newTable()
	tw.AppendHeader(table.Row{keyHeader, "Plays", "Last Seen"})
	for _, b := range buckets {
		tw.AppendRow(table.Row{b.Key, b.PlayCount, r.timestamp(b.LastSeen)})
	}
	fmt.Fprintln(w, tw.Render())
}

func (r *Renderer) inactive(w io.Writer, rep *InactiveReport) {
	fmt.Fprintf(w, "Found %d users\n", rep.UsersFound)
	if len(rep.Inactive) == 0 {
		fmt.Fprintf(w, "All users have activity in the last %d days.\n", rep.Days)
		fetchErrorNote(w, rep.FetchErrors)
		return
	}

	fmt.Fprintf(w, "%d user(s) with no activity in the last %d days (since %s)\n",
		len(rep.Inactive), rep.Days, r.timestamp(rep.Cutoff))

	tw := newTable()
	tw.AppendHeader(table.Row{"User", "ID", "Status", "Last Activity"})
	for _, u := range rep.Inactive {
		last := "never"
		if u.Status == activity.StatusStale {
			last = fmt.Sprintf("%s (%s)", r.timestamp(u.LastActivity),
				humanize.RelTime(time.Unix(u.LastActivity, 0), rep.GeneratedAt, "ago", "from now"))
		}
		tw.AppendRow(table.Row{truncate(u.User.Name, maxNameWidth), u.User.ID, string(u.Status), last})
	}
	fmt.Fprintln(w, tw.Render())
	fetchErrorNote(w, rep.FetchErrors)
}

// timestamp formats Unix seconds in the renderer's zone; 0 is unknown.
func (r *Renderer) timestamp(ts int64) string {
	if ts == 0 {
		return unknownTime
	}
	return time.Unix(ts, 0).In(r.loc).Format(timestampLayout)
}

func fetchErrorNote(w io.Writer, n int) {
	if n > 0 {
		fmt.Fprintf(w, "Note: %d request(s) failed; affected users are shown without that data. See the log for details.\n", n)
	}
}

// truncate shortens s to at most n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
