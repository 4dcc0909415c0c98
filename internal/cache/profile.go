// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// Key prefixes for profile entries.
const (
	EmbeddingKeyPrefix    = "user_embedding:"
	GenreWeightsKeyPrefix = "genre_weights:"
)

// EmbeddingKey returns the cache key of a user's preference embedding.
func EmbeddingKey(userID string) string {
	return EmbeddingKeyPrefix + userID
}

// GenreWeightsKey returns the cache key of a user's genre weights.
func GenreWeightsKey(userID string) string {
	return GenreWeightsKeyPrefix + userID
}

// ProfileCache stores preference embeddings and genre weights as JSON.
type ProfileCache struct {
	store Store
	ttl   time.Duration
}

// NewProfileCache wraps store. A non-positive ttl uses DefaultTTL.
func NewProfileCache(store Store, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileCache{store: store, ttl: ttl}
}

// TTL returns the lifetime applied to every entry.
func (c *ProfileCache) TTL() time.Duration {
	return c.ttl
}

// GetEmbedding returns the cached preference embedding.
func (c *ProfileCache) GetEmbedding(ctx context.Context, userID string) ([]float64, bool, error) {
	var emb []float64
	ok, err := c.get(ctx, EmbeddingKey(userID), &emb)
	return emb, ok, err
}

// SetEmbedding caches the preference embedding.
func (c *ProfileCache) SetEmbedding(ctx context.Context, userID string, embedding []float64) error {
	if embedding == nil {
		embedding = []float64{}
	}
	return c.set(ctx, EmbeddingKey(userID), embedding)
}

// GetGenreWeights returns the cached genre weights.
func (c *ProfileCache) GetGenreWeights(ctx context.Context, userID string) (map[string]float64, bool, error) {
	var weights map[string]float64
	ok, err := c.get(ctx, GenreWeightsKey(userID), &weights)
	return weights, ok, err
}

// SetGenreWeights caches the genre weights.
func (c *ProfileCache) SetGenreWeights(ctx context.Context, userID string, weights map[string]float64) error {
	if weights == nil {
		weights = map[string]float64{}
	}
	return c.set(ctx, GenreWeightsKey(userID), weights)
}

// Ping checks the backend.
func (c *ProfileCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close closes the backend.
func (c *ProfileCache) Close() error {
	return c.store.Close()
}

func (c *ProfileCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheError(c.store.Name(), "get")
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	metrics.RecordCacheLookup(c.store.Name(), ok)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.RecordCacheError(c.store.Name(), "decode")
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *ProfileCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		metrics.RecordCacheError(c.store.Name(), "set")
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
