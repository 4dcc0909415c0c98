// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package app

import (
	"github.com/tomtom215/shelfwise/internal/cache"
	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/encoder"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/supervisor/services"
)

// EngineConfig maps the recommend section onto the engine configuration.
// The embedding dimension follows the encoder.
func EngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		Scoring: recommend.ScoringConfig{
			BlendWeight:  rc.BlendWeight,
			EmbeddingDim: cfg.Encoder.Dimension,
		},
		Selection: recommend.SelectionConfig{
			DefaultCount:       rc.DefaultCount,
			MaxCount:           rc.MaxCount,
			Anchors:            rc.Anchors,
			WindowEnd:          rc.WindowEnd,
			DuplicateThreshold: rc.DuplicateThreshold,
		},
		Signals: recommend.SignalConfig{
			RatingPositive: rc.RatingPositive,
			RatingNegative: rc.RatingNegative,
			RatingNeutral:  rc.RatingNeutral,
			Wishlist:       rc.Wishlist,
			Onboarding:     rc.Onboarding,
		},
		Limits: recommend.LimitsConfig{
			RequestTimeout: rc.RequestTimeout,
		},
		Seed: rc.Seed,
	}
}

// EncoderConfig maps the encoder section onto the provider configuration.
//
//nolint:gocritic // hugeParam: called once at startup
func EncoderConfig(ec config.EncoderConfig) encoder.Config {
	return encoder.Config{
		Provider:  ec.Provider,
		Dimension: ec.Dimension,
		Timeout:   ec.Timeout,
		OpenAI: encoder.OpenAIConfig{
			APIKey:     ec.APIKey,
			BaseURL:    ec.BaseURL,
			Model:      ec.Model,
			MaxRetries: ec.MaxRetries,
		},
		ONNX: encoder.ONNXConfig{
			ModelPath:   ec.ModelPath,
			HFRepo:      ec.HFRepo,
			CacheDir:    ec.CacheDir,
			LibraryPath: ec.LibraryPath,
			Threads:     ec.Threads,
		},
		Breaker: encoder.BreakerConfig{
			Enabled:      ec.Breaker.Enabled,
			MinRequests:  ec.Breaker.MinRequests,
			FailureRatio: ec.Breaker.FailureRatio,
			Interval:     ec.Breaker.Interval,
			Timeout:      ec.Breaker.Timeout,
			MaxHalfOpen:  ec.Breaker.MaxHalfOpen,
		},
	}
}

// CacheConfig maps the cache and redis sections onto the store configuration.
func CacheConfig(cfg *config.Config) cache.Config {
	return cache.Config{
		Backend: cache.Backend(cfg.Cache.Backend),
		TTL:     cfg.Cache.TTL,
		MaxCost: cfg.Cache.MaxCost,
		Redis: cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
	}
}

// BackfillConfig maps the catalog section onto backfill pacing.
//
//nolint:gocritic // hugeParam: called once at startup
func BackfillConfig(cc config.CatalogConfig) catalog.BackfillConfig {
	return catalog.BackfillConfig{
		BatchSize:     cc.BatchSize,
		Concurrency:   cc.Concurrency,
		RatePerSecond: cc.RatePerSecond,
		Burst:         cc.Burst,
	}
}

// CatalogServiceConfig maps the catalog section onto the refresh service.
//
//nolint:gocritic // hugeParam: called once at startup
func CatalogServiceConfig(cc config.CatalogConfig) services.CatalogServiceConfig {
	return services.CatalogServiceConfig{
		RefreshInterval: cc.RefreshInterval,
		RefreshOnStart:  cc.RefreshOnStart,
	}
}
