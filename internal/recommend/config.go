// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Scoring contains parameters for candidate scoring.
	Scoring ScoringConfig `json:"scoring"`

	// Selection contains parameters for dedup and diversification.
	Selection SelectionConfig `json:"selection"`

	// Signals contains the weight each preference signal contributes.
	Signals SignalConfig `json:"signals"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Seed is the random seed for the selector.
	// If zero, the selector is seeded from the clock.
	Seed int64 `json:"seed"`
}

// ScoringConfig contains parameters for candidate scoring.
type ScoringConfig struct {
	// BlendWeight scales the genre sum added to cosine similarity in
	// blended scoring. Must be in [0, 1] so similarity dominates.
	// Default: 0.1.
	BlendWeight float64 `json:"blend_weight"`

	// EmbeddingDim is the encoder output dimensionality. A cold-start
	// profile is a zero vector of this length.
	// Default: 384.
	EmbeddingDim int `json:"embedding_dim"`
}

// SelectionConfig contains parameters for the selector.
type SelectionConfig struct {
	// DefaultCount is the number of books returned when none is requested.
	// Default: 6.
	DefaultCount int `json:"default_count"`

	// MaxCount is the largest count a caller may request.
	// Default: 50.
	MaxCount int `json:"max_count"`

	// Anchors is the number of top-ranked books always included.
	// Default: 2.
	Anchors int `json:"anchors"`

	// WindowEnd bounds the sampling window to ranks [Anchors, WindowEnd).
	// Default: 40.
	WindowEnd int `json:"window_end"`

	// DuplicateThreshold is the fuzzy title ratio (0-100) at or above which
	// two titles are considered the same work.
	// Default: 50.
	DuplicateThreshold float64 `json:"duplicate_threshold"`
}

// SignalConfig contains per-signal weight increments.
type SignalConfig struct {
	// RatingPositive is added per tag for a "pos" rating.
	// Default: 1.
	RatingPositive float64 `json:"rating_positive"`

	// RatingNegative is added per tag for a "neg" rating.
	// Default: -1.
	RatingNegative float64 `json:"rating_negative"`

	// RatingNeutral is added per tag for a "mid" rating.
	// Default: 0.
	RatingNeutral float64 `json:"rating_neutral"`

	// Wishlist is added per tag when a book is wishlisted.
	// Default: 0.5.
	Wishlist float64 `json:"wishlist"`

	// Onboarding is added per genre chosen during onboarding.
	// Default: 1.
	Onboarding float64 `json:"onboarding"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// RequestTimeout is the maximum time for one recommendation request.
	// Default: 30s.
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			BlendWeight:  0.1,
			EmbeddingDim: 384,
		},
		Selection: SelectionConfig{
			DefaultCount:       6,
			MaxCount:           50,
			Anchors:            2,
			WindowEnd:          40,
			DuplicateThreshold: 50,
		},
		Signals: SignalConfig{
			RatingPositive: 1,
			RatingNegative: -1,
			RatingNeutral:  0,
			Wishlist:       0.5,
			Onboarding:     1,
		},
		Limits: LimitsConfig{
			RequestTimeout: 30 * time.Second,
		},
		Seed: 42, // Default seed for determinism
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Scoring.BlendWeight < 0 || c.Scoring.BlendWeight > 1 {
		return fmt.Errorf("scoring.blend_weight must be in [0, 1], got %f", c.Scoring.BlendWeight)
	}
	if c.Scoring.EmbeddingDim < 1 {
		return fmt.Errorf("scoring.embedding_dim must be positive, got %d", c.Scoring.EmbeddingDim)
	}

	if c.Selection.DefaultCount < 1 {
		return fmt.Errorf("selection.default_count must be positive, got %d", c.Selection.DefaultCount)
	}
	if c.Selection.MaxCount < c.Selection.DefaultCount {
		return fmt.Errorf("selection.max_count must be >= selection.default_count, got %d < %d",
			c.Selection.MaxCount, c.Selection.DefaultCount)
	}
	if c.Selection.Anchors < 0 {
		return fmt.Errorf("selection.anchors must be non-negative, got %d", c.Selection.Anchors)
	}
	if c.Selection.WindowEnd < c.Selection.Anchors {
		return fmt.Errorf("selection.window_end must be >= selection.anchors, got %d < %d",
			c.Selection.WindowEnd, c.Selection.Anchors)
	}
	if c.Selection.DuplicateThreshold < 0 || c.Selection.DuplicateThreshold > 100 {
		return fmt.Errorf("selection.duplicate_threshold must be in [0, 100], got %f", c.Selection.DuplicateThreshold)
	}

	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MarshalJSON implements custom JSON marshaling for duration fields.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Limits struct {
			RequestTimeout string `json:"request_timeout"`
		} `json:"limits"`
	}{
		Alias: (*Alias)(c),
		Limits: struct {
			RequestTimeout string `json:"request_timeout"`
		}{
			RequestTimeout: c.Limits.RequestTimeout.String(),
		},
	})
}
