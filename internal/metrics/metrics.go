// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every tautulli-snitch metric. It is separate from the
// default registry so a textfile export contains only run metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Tautulli API Metrics
	APIRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tautulli_api_requests_total",
			Help: "Total number of Tautulli API requests",
		},
		[]string{"cmd", "result"}, // result: "success", "error", "rate_limited"
	)

	APIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tautulli_api_request_duration_seconds",
			Help:    "Duration of Tautulli API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"cmd"},
	)

	// Report Metrics
	ReportDuration = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snitch_report_duration_seconds",
			Help: "Wall-clock duration of the last report build",
		},
		[]string{"mode"}, // "summary", "detail", "inactive"
	)

	ReportUsers = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snitch_report_users",
			Help: "Number of users listed by Tautulli in the last report, in every mode",
		},
		[]string{"mode"},
	)

	ReportFetchErrors = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snitch_report_fetch_errors",
			Help: "Number of per-user fetches that failed during the last report",
		},
		[]string{"mode"},
	)

	ReportLastSuccess = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snitch_report_last_success_timestamp_seconds",
			Help: "Unix time of the last completed report",
		},
		[]string{"mode"},
	)

	RecordsDropped = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snitch_records_dropped_total",
			Help: "Total number of upstream records dropped during normalization",
		},
		[]string{"kind"}, // "user", "ip_row"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records a Tautulli API request metric
func RecordAPIRequest(cmd, result string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(cmd, result).Inc()
	APIRequestDuration.WithLabelValues(cmd).Observe(duration.Seconds())
}

// RecordReport records the outcome of a completed report build
func RecordReport(mode string, duration time.Duration, users, fetchErrors int) {
	ReportDuration.WithLabelValues(mode).Set(duration.Seconds())
	ReportUsers.WithLabelValues(mode).Set(float64(users))
	ReportFetchErrors.WithLabelValues(mode).Set(float64(fetchErrors))
	ReportLastSuccess.WithLabelValues(mode).SetToCurrentTime()
}

// RecordDroppedRecord counts an upstream record discarded by normalization
func RecordDroppedRecord(kind string) {
	RecordsDropped.WithLabelValues(kind).Inc()
}

// WriteTextfile exports Registry in the Prometheus text format for the
// node_exporter textfile collector. The file is written atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
