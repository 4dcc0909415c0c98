// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// DefaultMaxItems caps the number of books loaded by a refresh.
const DefaultMaxItems = 10000

// ErrNotLoaded is returned by operations that need a loaded snapshot.
var ErrNotLoaded = errors.New("catalog snapshot not loaded")

// Store loads the catalog from the document store.
type Store interface {
	LoadCatalog(ctx context.Context, limit int) ([]Book, error)
}

// state is one immutable generation of the snapshot.
type state struct {
	books []Book
	index map[primitive.ObjectID]int
	asOf  time.Time
}

// Snapshot is a concurrently readable, wholesale-replaced copy of the catalog.
type Snapshot struct {
	store    Store
	disk     *DiskCache
	maxItems int
	logger   zerolog.Logger

	current atomic.Pointer[state]

	// writeMu serializes Refresh and ApplyEmbeddings. Readers never take it.
	writeMu sync.Mutex

	now func() time.Time
}

// SnapshotOption configures a Snapshot.
type SnapshotOption func(*Snapshot)

// WithDiskCache enables the JSON disk cache.
func WithDiskCache(d *DiskCache) SnapshotOption {
	return func(s *Snapshot) { s.disk = d }
}

// WithMaxItems overrides the refresh limit.
func WithMaxItems(n int) SnapshotOption {
	return func(s *Snapshot) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// NewSnapshot creates an empty snapshot. Call Load before serving reads.
func NewSnapshot(store Store, logger zerolog.Logger, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{
		store:    store,
		maxItems: DefaultMaxItems,
		logger:   logger.With().Str("component", "catalog").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Books returns the current list. The slice is shared by all readers and
// must not be modified. It is empty before the first load.
func (s *Snapshot) Books() []Book {
	st := s.current.Load()
	if st == nil {
		return nil
	}
	return st.books
}

// Lookup returns the book with the given id from the current list.
func (s *Snapshot) Lookup(id primitive.ObjectID) (Book, bool) {
	st := s.current.Load()
	if st == nil {
		return Book{}, false
	}
	i, ok := st.index[id]
	if !ok {
		return Book{}, false
	}
	return st.books[i], true
}

// AsOf returns when the current list was built.
func (s *Snapshot) AsOf() time.Time {
	st := s.current.Load()
	if st == nil {
		return time.Time{}
	}
	return st.asOf
}

// Len returns the number of books in the current list.
func (s *Snapshot) Len() int {
	return len(s.Books())
}

// Loaded reports whether a list has been published.
func (s *Snapshot) Loaded() bool {
	return s.current.Load() != nil
}

// Load initializes the snapshot from the disk cache when present, falling
// back to a full refresh from the store.
func (s *Snapshot) Load(ctx context.Context) error {
	if s.disk != nil && s.disk.Exists() {
		start := time.Now()
		books, err := s.disk.Load()
		if err == nil {
			s.writeMu.Lock()
			s.publish(books)
			s.writeMu.Unlock()

			metrics.RecordCatalogRefresh("disk", time.Since(start), len(books), nil)
			s.logger.Info().
				Int("books", len(books)).
				Str("path", s.disk.Path()).
				Msg("Loaded catalog from cache file")
			return nil
		}
		metrics.RecordCatalogRefresh("disk", time.Since(start), 0, err)
		s.logger.Warn().Err(err).Str("path", s.disk.Path()).Msg("Catalog cache file unreadable, refreshing from store")
	}
	return s.Refresh(ctx)
}

// Refresh re-reads the catalog from the store and swaps it in. The previous
// list stays visible until the new one is complete. A failed refresh leaves
// the current list untouched.
func (s *Snapshot) Refresh(ctx context.Context) error {
	start := time.Now()
	s.logger.Info().Msg("Refreshing catalog")

	books, err := s.store.LoadCatalog(ctx, s.maxItems)
	if err != nil {
		metrics.RecordCatalogRefresh("store", time.Since(start), 0, err)
		return fmt.Errorf("load catalog: %w", err)
	}

	s.writeMu.Lock()
	s.publish(books)
	s.writeMu.Unlock()

	if s.disk != nil {
		if err := s.disk.Save(books); err != nil {
			s.logger.Warn().Err(err).Str("path", s.disk.Path()).Msg("Failed to write catalog cache file")
		}
	}

	elapsed := time.Since(start)
	metrics.RecordCatalogRefresh("store", elapsed, len(books), nil)
	s.logger.Info().
		Int("books", len(books)).
		Dur("duration", elapsed).
		Msg("Catalog refreshed")
	return nil
}

// ApplyEmbeddings publishes a new generation with the given embeddings set.
// Books no longer in the snapshot are ignored. It returns the number of books
// updated.
func (s *Snapshot) ApplyEmbeddings(updates map[primitive.ObjectID][]float64) int {
	if len(updates) == 0 {
		return 0
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.current.Load()
	if cur == nil {
		return 0
	}

	books := make([]Book, len(cur.books))
	copy(books, cur.books)

	applied := 0
	for id, emb := range updates {
		if i, ok := cur.index[id]; ok {
			books[i].Embedding = emb
			applied++
		}
	}
	if applied == 0 {
		return 0
	}

	// Same generation, so the as-of time is kept.
	s.current.Store(&state{books: books, index: cur.index, asOf: cur.asOf})
	return applied
}

// publish must be called with writeMu held.
func (s *Snapshot) publish(books []Book) {
	index := make(map[primitive.ObjectID]int, len(books))
	for i := range books {
		index[books[i].ID] = i
	}

	asOf := s.now()
	if prev := s.current.Load(); prev != nil && !asOf.After(prev.asOf) {
		asOf = prev.asOf.Add(time.Nanosecond)
	}

	s.current.Store(&state{books: books, index: index, asOf: asOf})
	metrics.CatalogBooks.Set(float64(len(books)))
	metrics.CatalogSnapshotTimestamp.Set(float64(asOf.Unix()))
}
