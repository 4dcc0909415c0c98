// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"math/rand"
	"sync"

	"github.com/tomtom215/shelfwise/internal/catalog"
)

// Selector turns a ranked list into a short, duplicate-free, partly random
// recommendation set.
type Selector struct {
	cfg SelectionConfig

	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSelector creates a selector seeded with seed.
func NewSelector(cfg SelectionConfig, seed int64) *Selector {
	return &Selector{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for sampling, not security
	}
}

// Select picks up to n books from ranked, which must be sorted by
// descending score.
//
// The highest-ranked books become anchors. Each further anchor is the next
// ranked book that does not duplicate an earlier anchor. The remaining slots
// are filled by uniform sampling without replacement from the window of
// ranks [Anchors, WindowEnd), skipping any book that duplicates one already
// chosen. If the window holds no more books than there are open slots it is
// taken in rank order, and books ranked past the window fill whatever the
// window leaves open. No two returned books are duplicates of each other.
func (s *Selector) Select(ranked []ScoredCandidate, n int) []catalog.Book {
	if n <= 0 || len(ranked) == 0 {
		return nil
	}

	anchors := s.cfg.Anchors
	if anchors > n {
		anchors = n
	}

	chosen := make([]catalog.Book, 0, n)
	keys := make([]duplicateKey, 0, n)
	used := make(map[int]struct{}, n)

	accept := func(i int) bool {
		key := newDuplicateKey(&ranked[i].Book)
		for _, k := range keys {
			if key.duplicates(k, s.cfg.DuplicateThreshold) {
				return false
			}
		}
		chosen = append(chosen, ranked[i].Book)
		keys = append(keys, key)
		used[i] = struct{}{}
		return true
	}

	for i := 0; i < len(ranked) && len(chosen) < anchors; i++ {
		accept(i)
	}

	windowEnd := s.cfg.WindowEnd
	if windowEnd > len(ranked) {
		windowEnd = len(ranked)
	}

	var pool []int
	for i := s.cfg.Anchors; i < windowEnd; i++ {
		if _, ok := used[i]; !ok {
			pool = append(pool, i)
		}
	}

	// A shuffled walk is a uniform sample without replacement. When every
	// window book fits, there is nothing to sample and rank order stands.
	if len(pool) > n-len(chosen) {
		s.rngMu.Lock()
		s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		s.rngMu.Unlock()
	}

	for _, i := range pool {
		if len(chosen) >= n {
			break
		}
		accept(i)
	}

	for i := windowEnd; i < len(ranked) && len(chosen) < n; i++ {
		if _, ok := used[i]; !ok {
			accept(i)
		}
	}

	return chosen
}
