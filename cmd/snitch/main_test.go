// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

var fakeResponses = map[string]string{
	"arnold":         `{"response":{"result":"success","data":"I'll be back"}}`,
	"get_user_names": `{"response":{"result":"success","data":[{"user_id":1,"friendly_name":"Alice"},{"user_id":2,"username":"bob"}]}}`,
	"get_user_player_stats": `{"response":{"result":"success","data":[
		{"player":"Shield","platform":"Android"},{"player":"Chrome"}]}}`,
	"get_user_ips": `{"response":{"result":"success","data":{"recordsTotal":2,"data":[
		{"ip_address":"10.0.0.1"},{"ip_address":"10.0.0.2"}]}}}`,
	"get_history": `{"response":{"result":"success","data":{"recordsFiltered":2,"data":[
		{"date":1700000000,"ip_address":"10.0.0.1","player":"Shield","platform":"Android"},
		{"date":1699990000,"ip_address":"10.0.0.1","player":"Shield","platform":"Android"}]}}}`,
}

// fakeTautulli serves canned responses and counts requests.
type fakeTautulli struct {
	responses map[string]string
	requests  atomic.Int32
}

func (f *fakeTautulli) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	q := r.URL.Query()
	body, ok := f.responses[q.Get("cmd")]
	if q.Get("apikey") != testAPIKey {
		body, ok = `{"response":{"result":"error","message":"Invalid apikey"}}`, true
	}
	if !ok {
		body = `{"response":{"result":"error","message":"Unknown command"}}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// setupRun starts a fake Tautulli and points the configuration at it from an
// empty working directory.
func setupRun(t *testing.T, responses map[string]string) *fakeTautulli {
	t.Helper()

	fake := &fakeTautulli{responses: responses}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("TAUTULLI_URL", srv.URL)
	t.Setenv("TAUTULLI_API_KEY", testAPIKey)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SNITCH_METRICS_FILE", "")
	return fake
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Summary(t *testing.T) {
	setupRun(t, fakeResponses)

	code, stdout, stderr := runCLI("--sort", "name")
	require.Equal(t, exitOK, code, stderr)

	assert.Contains(t, stdout, "Found 2 users")
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "bob")
	assert.Less(t, bytes.Index([]byte(stdout), []byte("Alice")), bytes.Index([]byte(stdout), []byte("bob")))
}

func TestRun_DetailJSON(t *testing.T) {
	setupRun(t, fakeResponses)

	code, stdout, stderr := runCLI("--user", "ALI", "--output", "json")
	require.Equal(t, exitOK, code, stderr)

	var rep struct {
		Mode    string `json:"mode"`
		Matches []struct {
			User struct {
				ID   string `json:"user_id"`
				Name string `json:"name"`
			} `json:"user"`
			HistoryRows int `json:"history_rows"`
			IPs         []struct {
				Key       string `json:"key"`
				PlayCount int    `json:"play_count"`
				LastSeen  int64  `json:"last_seen"`
			} `json:"ips"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))

	assert.Equal(t, "detail", rep.Mode)
	require.Len(t, rep.Matches, 1)
	assert.Equal(t, "1", rep.Matches[0].User.ID)
	assert.Equal(t, "Alice", rep.Matches[0].User.Name)
	assert.Equal(t, 2, rep.Matches[0].HistoryRows)
	require.Len(t, rep.Matches[0].IPs, 1)
	assert.Equal(t, "10.0.0.1", rep.Matches[0].IPs[0].Key)
	assert.Equal(t, 2, rep.Matches[0].IPs[0].PlayCount)
	assert.Equal(t, int64(1700000000), rep.Matches[0].IPs[0].LastSeen)
}

func TestRun_InactiveTakesPrecedence(t *testing.T) {
	setupRun(t, fakeResponses)

	code, stdout, stderr := runCLI("--user", "alice", "--inactive", "36500")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "All users have activity in the last 36500 days.")
}

func TestRun_ValidationErrorsExitZeroWithoutRequests(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "non-integer days", args: []string{"--inactive", "abc"}, want: `--inactive must be a whole number of days, got "abc"`},
		{name: "zero days", args: []string{"--inactive", "0"}, want: "--inactive"},
		{name: "too many days", args: []string{"--inactive", "36501"}, want: "--inactive"},
		{name: "empty user filter", args: []string{"--user="}, want: "--user is required"},
		{name: "long user filter", args: []string{"--user", string(bytes.Repeat([]byte("a"), 256))}, want: "--user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := setupRun(t, fakeResponses)

			code, stdout, stderr := runCLI(tt.args...)
			assert.Equal(t, exitOK, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.want)
			assert.Zero(t, fake.requests.Load())
		})
	}
}

func TestRun_ConfigErrorExitsOne(t *testing.T) {
	fake := setupRun(t, fakeResponses)
	t.Setenv("TAUTULLI_URL", "")

	code, stdout, stderr := runCLI()
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid configuration")
	assert.Zero(t, fake.requests.Load())
}

func TestRun_LogLevelFlagOverridesInvalidEnv(t *testing.T) {
	setupRun(t, fakeResponses)
	t.Setenv("LOG_LEVEL", "bogus")

	code, _, stderr := runCLI("--check")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "level")

	code, stdout, stderr := runCLI("--check", "--log-level", "warn")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Connected to Tautulli")
}

func TestRun_MissingConfigFileExitsOne(t *testing.T) {
	setupRun(t, fakeResponses)

	code, _, stderr := runCLI("--config", "missing.yaml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "missing.yaml")
}

func TestRun_ListUsersFailureExitsOne(t *testing.T) {
	setupRun(t, fakeResponses)
	t.Setenv("TAUTULLI_API_KEY", "wrong")

	code, stdout, stderr := runCLI()
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "failed to list users")
	assert.Contains(t, stderr, "Invalid apikey")
}

func TestRun_PerUserFailuresStillReport(t *testing.T) {
	responses := map[string]string{
		"get_user_names": fakeResponses["get_user_names"],
		"get_user_ips":   fakeResponses["get_user_ips"],
	}
	setupRun(t, responses)

	code, stdout, stderr := runCLI()
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Found 2 users")
	assert.Contains(t, stdout, "Note: 2 request(s) failed")
	assert.Contains(t, stderr, `"fetch":"player_stats"`)
}

func TestRun_Check(t *testing.T) {
	fake := setupRun(t, fakeResponses)

	code, stdout, stderr := runCLI("--check")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Connected to Tautulli")
	assert.Equal(t, int32(1), fake.requests.Load())
}

func TestRun_UsageErrors(t *testing.T) {
	setupRun(t, fakeResponses)

	for _, args := range [][]string{
		{"--sort", "plays"},
		{"--output", "csv"},
		{"--bogus"},
		{"extra"},
	} {
		code, _, stderr := runCLI(args...)
		assert.Equal(t, exitUsage, code, "args %v", args)
		assert.NotEmpty(t, stderr)
	}
}

func TestRun_Help(t *testing.T) {
	setupRun(t, fakeResponses)

	code, _, stderr := runCLI("--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "--inactive")
}

func TestRun_MetricsFile(t *testing.T) {
	setupRun(t, fakeResponses)
	path := filepath.Join(t.TempDir(), "snitch.prom")

	code, _, stderr := runCLI("--metrics-file", path)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `snitch_report_users{mode="summary"} 2`)
	assert.Contains(t, string(data), "tautulli_api_requests_total")
}
