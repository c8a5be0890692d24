// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

// Package report builds and renders the summary, detail and inactivity
// reports.
//
// A Builder drives a Source one user at a time and hands the rows to the
// activity package. Only a failed user list aborts a report; any other
// failed fetch is logged and counted in the report's FetchErrors.
//
//	b := report.NewBuilder(client, report.Options{})
//	rep, err := b.Summary(ctx, activity.SortByDevices)
//	if err != nil {
//	    return err
//	}
//	return report.NewRenderer(report.FormatTable, nil).Render(os.Stdout, rep)
package report
