// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

/*
tautulli_client.go - Core Tautulli API Client

This file provides the TautulliClient struct and HTTP communication layer
for interacting with Tautulli's API v2.

Client Features:
  - HTTP client with configurable timeout (default 30s)
  - API key authentication
  - Optional circuit breaker (circuit_breaker.go)
  - JSON decoding with numbers preserved as json.Number
  - Context support for cancellation

HTTP 429 is reported as ErrRateLimited and never retried. One report run
makes one request per user per data set, and a failed request is handled
by the caller as "no data for this user".

Related Files:
  - tautulli_users.go: user list, player stats and IP table
  - tautulli_history.go: playback history
*/

//nolint:staticcheck // File documentation, not package doc
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/schwaboy/tautulli-snitch/internal/config"
	"github.com/schwaboy/tautulli-snitch/internal/logging"
	"github.com/schwaboy/tautulli-snitch/internal/metrics"
	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// defaultTimeout applies when the configuration leaves the timeout unset.
const defaultTimeout = 30 * time.Second

// ErrRateLimited is returned when Tautulli answers HTTP 429.
var ErrRateLimited = errors.New("rate limited by Tautulli (HTTP 429)")

// TautulliClientInterface defines the Tautulli API operations used by the
// report builder.
//
// All methods:
//   - Accept context.Context as first parameter for cancellation
//   - Return the rows of the response as loosely-typed records
//   - Return error on HTTP failures, API errors, or JSON parse failures
type TautulliClientInterface interface {
	Ping(ctx context.Context) error
	GetUserNames(ctx context.Context) ([]tautulli.Record, error)
	GetUserPlayerStats(ctx context.Context, userID string) ([]tautulli.Record, error)
	GetUserIPs(ctx context.Context, userID string, start, length int) ([]tautulli.Record, error)
	GetHistory(ctx context.Context, userID string, start, length, grouping int) ([]tautulli.Record, error)
}

// TautulliClient handles communication with the Tautulli HTTP API.
//
// Example:
//
//	client := source.NewTautulliClient(&cfg.Tautulli)
//	if err := client.Ping(ctx); err != nil {
//	    return fmt.Errorf("tautulli not reachable: %w", err)
//	}
//	users, err := client.GetUserNames(ctx)
type TautulliClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTautulliClient creates a new Tautulli API client with the provided configuration.
func NewTautulliClient(cfg *config.TautulliConfig) *TautulliClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &TautulliClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// New returns the client selected by configuration: the plain client, or
// the circuit-breaker wrapper when tautulli.circuit_breaker.enabled is set.
func New(cfg *config.TautulliConfig) TautulliClientInterface {
	if cfg.CircuitBreaker.Enabled {
		return NewCircuitBreakerClient(cfg)
	}
	return NewTautulliClient(cfg)
}

// callTautulliAPI performs one command and returns the validated response.
// It builds the URL with API key and command, checks the HTTP status,
// decodes the JSON envelope and checks response.result.
func (c *TautulliClient) callTautulliAPI(ctx context.Context, cmd string, params url.Values) (*tautulli.Response, error) {
	if params == nil {
		params = url.Values{}
	}

	logger := logging.CtxComponent(ctx, "tautulli")
	logger.Debug().Str("cmd", cmd).Str("query", redactedQuery(params)).Msg("Calling Tautulli API")

	params.Set("apikey", c.apiKey)
	params.Set("cmd", cmd)
	reqURL := fmt.Sprintf("%s/api/v2?%s", c.baseURL, params.Encode())

	start := time.Now()
	resp, err := c.doRequest(ctx, cmd, reqURL)
	duration := time.Since(start)

	switch {
	case errors.Is(err, ErrRateLimited):
		metrics.RecordAPIRequest(cmd, "rate_limited", duration)
	case err != nil:
		metrics.RecordAPIRequest(cmd, "error", duration)
	default:
		metrics.RecordAPIRequest(cmd, "success", duration)
	}

	return resp, err
}

func (c *TautulliClient) doRequest(ctx context.Context, cmd, reqURL string) (*tautulli.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", cmd, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make %s request: %w", cmd, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s request failed: %w", cmd, ErrRateLimited)
	}

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%s request failed with status %d: %s", cmd, resp.StatusCode, bytes.TrimSpace(body))
	}

	var envelope tautulli.Envelope
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}

	if !envelope.Response.Success() {
		return nil, fmt.Errorf("tautulli API error for command %q: %s", cmd, envelope.Response.ErrorMessage())
	}

	return &envelope.Response, nil
}

// Ping verifies connectivity and the API key using the arnold command.
func (c *TautulliClient) Ping(ctx context.Context) error {
	if _, err := c.callTautulliAPI(ctx, "arnold", nil); err != nil {
		return fmt.Errorf("failed to ping Tautulli: %w", err)
	}
	return nil
}
