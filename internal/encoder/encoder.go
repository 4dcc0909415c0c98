// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package encoder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderONNX   = "onnx"
	ProviderNone   = "none"
)

var (
	// ErrDisabled is returned by New when the provider is "none".
	ErrDisabled = errors.New("encoder disabled")

	// ErrUnavailable wraps failures caused by the breaker rejecting a call.
	ErrUnavailable = errors.New("encoder unavailable")
)

// Encoder produces one embedding per input text.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
	Name() string
}

// Config selects and configures the encoder.
type Config struct {
	// Provider is one of openai, onnx or none.
	Provider string

	// Dimension is the expected vector length. Vectors of any other length
	// are rejected.
	Dimension int

	// Timeout bounds a single Encode call.
	Timeout time.Duration

	OpenAI  OpenAIConfig
	ONNX    ONNXConfig
	Breaker BreakerConfig
}

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
}

// ONNXConfig configures the local hugot provider.
type ONNXConfig struct {
	// ModelPath is a directory holding an exported ONNX model. When it does
	// not exist the model is downloaded from HFRepo into CacheDir.
	ModelPath   string
	HFRepo      string
	CacheDir    string
	LibraryPath string
	Threads     int
}

// BreakerConfig configures the circuit breaker around the provider.
type BreakerConfig struct {
	Enabled      bool
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
	MaxHalfOpen  uint32
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderOpenAI,
		Dimension: 384,
		Timeout:   30 * time.Second,
		OpenAI: OpenAIConfig{
			Model:      "text-embedding-3-small",
			MaxRetries: 2,
		},
		ONNX: ONNXConfig{
			HFRepo: "sentence-transformers/all-MiniLM-L6-v2",
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MinRequests:  10,
			FailureRatio: 0.6,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
			MaxHalfOpen:  3,
		},
	}
}

// New builds the configured encoder. It returns ErrDisabled for the "none"
// provider so callers can run without embeddings.
//
//nolint:gocritic // hugeParam: cfg passed by value, copied once at startup
func New(cfg Config, logger zerolog.Logger) (Encoder, error) {
	if cfg.Dimension < 1 {
		return nil, fmt.Errorf("encoder dimension must be positive, got %d", cfg.Dimension)
	}

	var (
		enc Encoder
		err error
	)
	switch cfg.Provider {
	case ProviderNone, "":
		return nil, ErrDisabled
	case ProviderOpenAI:
		enc, err = NewOpenAIEncoder(cfg.OpenAI, cfg.Dimension, cfg.Timeout)
	case ProviderONNX:
		enc, err = NewONNXEncoder(cfg.ONNX, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown encoder provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s encoder: %w", cfg.Provider, err)
	}

	if cfg.Breaker.Enabled {
		enc = NewBreakerEncoder(enc, cfg.Breaker, logger)
	}
	return enc, nil
}

// Close releases resources held by enc, if it holds any.
func Close(enc Encoder) error {
	if c, ok := enc.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// checkOutput verifies a provider returned one vector of the right length
// per input.
func checkOutput(texts int, vectors [][]float64, dim int) error {
	if len(vectors) != texts {
		return fmt.Errorf("encoder returned %d vectors for %d texts", len(vectors), texts)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return nil
}
