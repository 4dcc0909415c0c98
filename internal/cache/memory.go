// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const defaultMaxCost = 64 << 20

// MemoryStore is an in-process Store. Entries are costed by size and may be
// evicted before their TTL when MaxCost is reached.
type MemoryStore struct {
	cache *ristretto.Cache[string, []byte]
}

// NewMemoryStore creates a store bounded to maxCost bytes.
func NewMemoryStore(maxCost int64) (*MemoryStore, error) {
	if maxCost <= 0 {
		maxCost = defaultMaxCost
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		// About 10x the expected number of entries, assuming ~1.5 KiB each.
		NumCounters: maxCost / 150,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &MemoryStore{cache: c}, nil
}

// Get returns the value stored at key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := s.cache.Get(key)
	return val, ok, nil
}

// Set stores value at key with ttl. Writes are applied before Set returns.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.SetWithTTL(key, value, int64(len(value)), ttl)
	s.cache.Wait()
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close stops the cache's background goroutines.
func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}

// Name returns "memory".
func (s *MemoryStore) Name() string { return string(BackendMemory) }
