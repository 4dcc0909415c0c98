// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package app

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/cache"
	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
)

// --- Test: EngineConfig ---

func TestEngineConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	rc := EngineConfig(cfg)

	if err := rc.Validate(); err != nil {
		t.Fatalf("default engine config invalid: %v", err)
	}
	if rc.Scoring.EmbeddingDim != cfg.Encoder.Dimension {
		t.Errorf("EmbeddingDim = %d, want encoder dimension %d", rc.Scoring.EmbeddingDim, cfg.Encoder.Dimension)
	}
	if rc.Scoring.BlendWeight != 0.1 {
		t.Errorf("BlendWeight = %v, want 0.1", rc.Scoring.BlendWeight)
	}
	if rc.Selection.Anchors != 2 || rc.Selection.WindowEnd != 40 {
		t.Errorf("window = [%d, %d), want [2, 40)", rc.Selection.Anchors, rc.Selection.WindowEnd)
	}
	if rc.Signals.Wishlist != 0.5 {
		t.Errorf("Wishlist = %v, want 0.5", rc.Signals.Wishlist)
	}
}

func TestEngineConfig_CopiesOverrides(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Encoder.Dimension = 8
	cfg.Recommend.DefaultCount = 3
	cfg.Recommend.Seed = 7
	cfg.Recommend.RequestTimeout = 5 * time.Second

	rc := EngineConfig(cfg)
	if rc.Scoring.EmbeddingDim != 8 {
		t.Errorf("EmbeddingDim = %d, want 8", rc.Scoring.EmbeddingDim)
	}
	if rc.Selection.DefaultCount != 3 {
		t.Errorf("DefaultCount = %d, want 3", rc.Selection.DefaultCount)
	}
	if rc.Seed != 7 {
		t.Errorf("Seed = %d, want 7", rc.Seed)
	}
	if rc.Limits.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", rc.Limits.RequestTimeout)
	}
}

// --- Test: EncoderConfig ---

func TestEncoderConfig(t *testing.T) {
	t.Parallel()

	ec := config.Defaults().Encoder
	ec.Provider = "openai"
	ec.APIKey = "sk-test"
	ec.Breaker.MinRequests = 4

	got := EncoderConfig(ec)
	if got.Provider != "openai" || got.OpenAI.APIKey != "sk-test" {
		t.Errorf("provider settings not copied: %+v", got.OpenAI)
	}
	if got.Breaker.MinRequests != 4 {
		t.Errorf("Breaker.MinRequests = %d, want 4", got.Breaker.MinRequests)
	}
	if got.Dimension != ec.Dimension {
		t.Errorf("Dimension = %d, want %d", got.Dimension, ec.Dimension)
	}
}

// --- Test: CacheConfig ---

func TestCacheConfig_MemoryBackendOpens(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Cache.Backend = "memory"

	cc := CacheConfig(cfg)
	if cc.Backend != cache.BackendMemory {
		t.Fatalf("Backend = %q, want memory", cc.Backend)
	}

	store, err := cache.NewStore(context.Background(), cc)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
}

func TestCacheConfig_Redis(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Redis.Addr = "redis:6379"
	cfg.Redis.DB = 2

	cc := CacheConfig(cfg)
	if cc.Redis.Addr != "redis:6379" || cc.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cc.Redis)
	}
}

// --- Test: catalog mappings ---

func TestBackfillConfig(t *testing.T) {
	t.Parallel()

	cc := config.Defaults().Catalog
	cc.BatchSize = 16
	cc.RatePerSecond = 0

	got := BackfillConfig(cc)
	want := catalog.BackfillConfig{
		BatchSize:     16,
		Concurrency:   cc.Concurrency,
		RatePerSecond: 0,
		Burst:         cc.Burst,
	}
	if got != want {
		t.Errorf("BackfillConfig = %+v, want %+v", got, want)
	}
}

func TestCatalogServiceConfig(t *testing.T) {
	t.Parallel()

	cc := config.Defaults().Catalog
	cc.RefreshInterval = time.Hour
	cc.RefreshOnStart = true

	got := CatalogServiceConfig(cc)
	if got.RefreshInterval != time.Hour || !got.RefreshOnStart {
		t.Errorf("CatalogServiceConfig = %+v", got)
	}
}

// --- Test: Components ---

func TestComponentsClose_ReverseOrder(t *testing.T) {
	t.Parallel()

	var order []string
	c := &Components{}
	c.onClose("first", func() error { order = append(order, "first"); return nil })
	c.onClose("second", func() error { order = append(order, "second"); return context.Canceled })

	err := c.Close()
	if err == nil {
		t.Fatal("Close should report the failing closer")
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("close order = %v, want [second first]", order)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestBackfillService_NilWhenDisabled(t *testing.T) {
	t.Parallel()

	c := &Components{}
	if c.BackfillService() != nil {
		t.Error("BackfillService should be a nil interface without a backfiller")
	}
}
