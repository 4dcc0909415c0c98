// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(level)
	return slog.New(NewSlogHandlerWithLogger(zl)), &buf
}

func TestSlogHandlerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
	}{
		{"debug", func(l *slog.Logger) { l.Debug("d") }, "debug"},
		{"info", func(l *slog.Logger) { l.Info("i") }, "info"},
		{"warn", func(l *slog.Logger) { l.Warn("w") }, "warn"},
		{"error", func(l *slog.Logger) { l.Error("e") }, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, buf := newBufferedSlog(zerolog.DebugLevel)
			tt.log(logger)
			entry := decodeLine(t, strings.TrimSpace(buf.String()))
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
		})
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestSlogHandlerAttributes(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferedSlog(zerolog.InfoLevel)
	logger.With("service", "catalog-refresh").
		WithGroup("supervisor").
		Info("restarting",
			"attempt", 3,
			"backoff", 2*time.Second,
			"failing", true,
			slog.Group("cause", "kind", "timeout"),
		)

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry["message"] != "restarting" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["service"] != "catalog-refresh" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["supervisor.attempt"] != float64(3) {
		t.Errorf("supervisor.attempt = %v", entry["supervisor.attempt"])
	}
	if entry["supervisor.failing"] != true {
		t.Errorf("supervisor.failing = %v", entry["supervisor.failing"])
	}
	if entry["supervisor.cause.kind"] != "timeout" {
		t.Errorf("nested group key missing: %v", entry)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
