// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/testinfra"
)

func TestRedis_ProfileCacheAgainstServer(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, container) })

	store, err := NewStore(ctx, Config{Backend: BackendRedis, Redis: RedisConfig{Addr: container.Addr}})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	pc := NewProfileCache(store, 2*time.Second)
	t.Cleanup(func() { _ = pc.Close() })

	if err := pc.SetEmbedding(ctx, "u1", []float64{0.25, -1, 0}); err != nil {
		t.Fatalf("SetEmbedding() error = %v", err)
	}
	got, ok, err := pc.GetEmbedding(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("GetEmbedding() = %v, %v, %v", got, ok, err)
	}
	if len(got) != 3 || got[0] != 0.25 || got[1] != -1 {
		t.Errorf("GetEmbedding() = %v", got)
	}

	if err := pc.SetGenreWeights(ctx, "u1", map[string]float64{"Fantasy": 2}); err != nil {
		t.Fatalf("SetGenreWeights() error = %v", err)
	}

	// Real expiry, which miniredis only simulates with FastForward.
	time.Sleep(3 * time.Second)
	if _, ok, err := pc.GetGenreWeights(ctx, "u1"); err != nil || ok {
		t.Errorf("GetGenreWeights() after TTL: found=%v err=%v, want miss", ok, err)
	}
}
