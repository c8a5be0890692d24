// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

/*
Package metrics provides Prometheus instrumentation for a single report run.

tautulli-snitch is a one-shot command, so nothing is served over HTTP. Metrics
are collected in a dedicated Registry and, when --metrics-file or
SNITCH_METRICS_FILE is set, written once at exit for the node_exporter
textfile collector:

	tautulli-snitch --inactive 30 --metrics-file /var/lib/node_exporter/snitch.prom

# Available Metrics

Tautulli API Metrics:
  - tautulli_api_requests_total: API calls (counter)
    Labels: cmd, result
  - tautulli_api_request_duration_seconds: API latency (histogram)
    Labels: cmd

Report Metrics:
  - snitch_report_duration_seconds: Build time of the last report (gauge)
  - snitch_report_users: Users included in the last report (gauge)
  - snitch_report_fetch_errors: Failed per-user fetches (gauge)
  - snitch_report_last_success_timestamp_seconds: Completion time (gauge)
    Labels: mode
  - snitch_records_dropped_total: Records discarded during normalization (counter)
    Labels: kind

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result (counter)
  - circuit_breaker_consecutive_failures: (gauge)
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state (counter)
*/
package metrics
