// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package encoder

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// mockEncoder returns fixed vectors or a configured error.
type mockEncoder struct {
	mu    sync.Mutex
	name  string
	dim   int
	err   error
	calls int
}

func (m *mockEncoder) Name() string   { return m.name }
func (m *mockEncoder) Dimension() int { return m.dim }

func (m *mockEncoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = make([]float64, m.dim)
	}
	return out, nil
}

func (m *mockEncoder) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockEncoder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Test: New ---

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
		anyErr  bool
	}{
		{name: "none provider", modify: func(c *Config) { c.Provider = ProviderNone }, wantErr: ErrDisabled},
		{name: "empty provider", modify: func(c *Config) { c.Provider = "" }, wantErr: ErrDisabled},
		{name: "unknown provider", modify: func(c *Config) { c.Provider = "word2vec" }, anyErr: true},
		{name: "zero dimension", modify: func(c *Config) { c.Dimension = 0 }, anyErr: true},
		{name: "openai without key", modify: func(c *Config) { c.OpenAI.APIKey = "" }, anyErr: true},
		{name: "openai with key", modify: func(c *Config) { c.OpenAI.APIKey = "sk-test" }},
		{
			name: "self-hosted openai without key",
			modify: func(c *Config) {
				c.OpenAI.BaseURL = "http://localhost:8080/v1"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(&cfg)

			enc, err := New(cfg, testLogger())
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("New() = nil error, want error")
				}
			default:
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				if enc.Dimension() != cfg.Dimension {
					t.Errorf("Dimension() = %d, want %d", enc.Dimension(), cfg.Dimension)
				}
				if _, ok := enc.(*BreakerEncoder); !ok {
					t.Errorf("New() = %T, want breaker-wrapped encoder", enc)
				}
			}
		})
	}
}

func TestNew_BreakerDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"
	cfg.Breaker.Enabled = false

	enc, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := enc.(*OpenAIEncoder); !ok {
		t.Errorf("New() = %T, want *OpenAIEncoder", enc)
	}
}

func TestCheckOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		texts   int
		vectors [][]float64
		wantErr bool
	}{
		{name: "matching", texts: 2, vectors: [][]float64{{1, 2}, {3, 4}}},
		{name: "too few vectors", texts: 2, vectors: [][]float64{{1, 2}}, wantErr: true},
		{name: "wrong dimension", texts: 2, vectors: [][]float64{{1, 2}, {3}}, wantErr: true},
		{name: "missing vector", texts: 2, vectors: [][]float64{{1, 2}, nil}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkOutput(tt.texts, tt.vectors, 2)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkOutput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
