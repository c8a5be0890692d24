// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/schwaboy/tautulli-snitch/internal/activity"
	"github.com/schwaboy/tautulli-snitch/internal/config"
	"github.com/schwaboy/tautulli-snitch/internal/logging"
	"github.com/schwaboy/tautulli-snitch/internal/metrics"
	"github.com/schwaboy/tautulli-snitch/internal/report"
	"github.com/schwaboy/tautulli-snitch/internal/source"
	"github.com/schwaboy/tautulli-snitch/internal/validation"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options holds parsed command-line flags.
type options struct {
	sort        activity.SortMode
	format      report.Format
	user        string
	userSet     bool
	inactive    string
	inactiveSet bool
	configPath  string
	metricsFile string
	logLevel    string
	check       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("snitch", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts   options
		sort   string
		output string
	)
	fs.StringVar(&sort, "sort", string(activity.SortByDevices), "Sort the summary by user name, number of devices, or number of IPs (name, devices, ips)")
	fs.StringVar(&opts.user, "user", "", "Show ranked IPs and devices for users whose name contains this text (case-insensitive)")
	fs.StringVar(&opts.inactive, "inactive", "", "List users with no activity in the last N days (takes precedence over --user)")
	fs.StringVar(&output, "output", string(report.FormatTable), "Output format (table, json)")
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics to this Prometheus textfile")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	fs.BoolVar(&opts.check, "check", false, "Check that the Tautulli API is reachable and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var err error
	if opts.sort, err = activity.ParseSortMode(sort); err != nil {
		return nil, err
	}
	if opts.format, err = report.ParseFormat(output); err != nil {
		return nil, err
	}
	opts.userSet = fs.Changed("user")
	opts.inactiveSet = fs.Changed("inactive")
	return &opts, nil
}

// overrides maps the flags that shadow configuration onto config paths.
func (o *options) overrides() map[string]any {
	out := make(map[string]any)
	if o.logLevel != "" {
		out[config.KeyLogLevel] = o.logLevel
	}
	if o.metricsFile != "" {
		out[config.KeyMetricsTextfile] = o.metricsFile
	}
	return out
}

// run executes one invocation and returns the process exit code.
//
//nolint:gocyclo // sequential CLI wiring
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// Mode arguments are checked before configuration so a bad value never
	// reaches the network.
	var days int
	if opts.inactiveSet {
		if days, err = activity.ParseInactiveDays(opts.inactive); err != nil {
			return validationFailure(stderr, err)
		}
	} else if opts.userSet {
		if err := activity.ValidateFilter(opts.user); err != nil {
			return validationFailure(stderr, err)
		}
	}

	cfg, err := config.LoadWithKoanf(opts.configPath, opts.overrides())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})

	ctx = logging.ContextWithNewRunID(ctx)
	logger := logging.Ctx(ctx)
	logger.Debug().
		Str("tautulli_url", cfg.Tautulli.URL).
		Bool("circuit_breaker", cfg.Tautulli.CircuitBreaker.Enabled).
		Msg("Configuration loaded")

	client := source.New(&cfg.Tautulli)

	if opts.check {
		if err := client.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("Tautulli is not reachable")
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		fmt.Fprintf(stdout, "Connected to Tautulli at %s\n", cfg.Tautulli.URL)
		return exitOK
	}

	builder := report.NewBuilder(client, report.Options{
		HistoryLength: cfg.Report.HistoryLength,
		IPTableLength: cfg.Report.IPTableLength,
	})

	var rep report.Report
	switch {
	case opts.inactiveSet:
		rep, err = builder.Inactive(ctx, days)
	case opts.userSet:
		rep, err = builder.Detail(ctx, opts.user)
	default:
		rep, err = builder.Summary(ctx, opts.sort)
	}
	if err != nil {
		if validation.IsValidationError(err) {
			return validationFailure(stderr, err)
		}
		logger.Error().Err(err).Msg("Report failed")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if err := report.NewRenderer(opts.format, nil).Render(stdout, rep); err != nil {
		logger.Error().Err(err).Msg("Failed to write report")
		return exitError
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics textfile")
			return exitError
		}
	}
	return exitOK
}

// validationFailure prints a rejected argument. Such a run still exits 0.
func validationFailure(stderr io.Writer, err error) int {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		err = verr
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitOK
}
