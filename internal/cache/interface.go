// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is a byte-level key/value store with per-entry TTL.
type Store interface {
	// Get returns the value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error

	// Name returns the backend name used in metrics.
	Name() string
}

// Backend represents the type of cache to create.
type Backend string

const (
	// BackendRedis stores entries in Redis (default).
	BackendRedis Backend = "redis"

	// BackendMemory stores entries in process.
	// Best for: single-node deployments and tests.
	BackendMemory Backend = "memory"
)

// DefaultTTL is the lifetime of cached profile entries.
const DefaultTTL = time.Hour

// Config holds configuration for creating a cache.
type Config struct {
	// Backend specifies the store implementation (redis or memory).
	Backend Backend

	// TTL is the lifetime of every entry.
	// Default: 1h.
	TTL time.Duration

	// MaxCost bounds the memory backend, in bytes.
	// Default: 64 MiB.
	MaxCost int64

	Redis RedisConfig
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewStore creates the configured backend and checks it is reachable.
//
//nolint:gocritic // hugeParam: cfg passed by value, copied once at startup
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(cfg.MaxCost)
	case BackendRedis, "":
		store := NewRedisStore(cfg.Redis)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ping redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Verify interface implementations at compile time
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
