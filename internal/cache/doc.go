// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package cache provides the TTL cache that fronts stored preference profiles.

# Overview

ProfileCache stores two JSON-encoded values per user:

	user_embedding:<user_id>  -> [0.12, -0.03, ...]
	genre_weights:<user_id>   -> {"Fantasy": 2, "Horror": -1}

Every write carries the configured TTL (default one hour), so an entry that
was missed by a write-through self-heals on expiry.

# Backends

  - redis: shared across replicas (github.com/redis/go-redis/v9)
  - memory: in-process, for single-node and test setups
    (github.com/dgraph-io/ristretto/v2)

The cache is an optimization only. Callers treat read errors as misses and
fall back to the preference store.
*/
package cache
