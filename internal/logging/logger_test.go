// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureGlobal points the global logger at a buffer for one test.
// Tests using it must not run in parallel.
func captureGlobal(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	Init(cfg)
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info", Format: "json"})

	Info().Str("user_id", "u1").Msg("Recommendations served")
	Debug().Msg("filtered by level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	entry := decodeLine(t, lines[0])
	if entry["message"] != "Recommendations served" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["user_id"] != "u1" {
		t.Errorf("user_id = %v", entry["user_id"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected time field")
	}
}

func TestInitConsoleOutput(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "debug", Format: "console"})

	Warn().Msg("console line")

	out := buf.String()
	if !strings.Contains(out, "console line") {
		t.Errorf("expected message in console output, got %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("console format should not emit JSON")
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info"})

	logger := WithComponent("catalog")
	logger.Info().Msg("refreshed")

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry["component"] != "catalog" {
		t.Errorf("component = %v", entry["component"])
	}
}

func TestNewTestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Debug().Msg("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug entry, got %q", buf.String())
	}
}
