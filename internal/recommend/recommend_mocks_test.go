// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/catalog"
)

var (
	errStoreDown = errors.New("store down")
	errCacheDown = errors.New("cache down")
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// mockStore is an in-memory PreferenceStore.
type mockStore struct {
	mu         sync.Mutex
	weights    map[string]map[string]float64
	embeddings map[string][]float64

	loadErr error
	saveErr error

	loadCalls      int
	weightSaves    int
	embeddingSaves int
}

func newMockStore() *mockStore {
	return &mockStore{
		weights:    make(map[string]map[string]float64),
		embeddings: make(map[string][]float64),
	}
}

func (m *mockStore) LoadPreference(_ context.Context, userID string) (Profile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.loadErr != nil {
		return Profile{}, false, m.loadErr
	}
	w, okW := m.weights[userID]
	e, okE := m.embeddings[userID]
	if !okW && !okE {
		return Profile{UserID: userID}, false, nil
	}
	return Profile{UserID: userID, GenreWeights: copyWeights(w), Embedding: copyVector(e)}, true, nil
}

func (m *mockStore) SaveGenreWeights(_ context.Context, userID string, weights map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.weightSaves++
	m.weights[userID] = copyWeights(weights)
	return nil
}

func (m *mockStore) SaveEmbedding(_ context.Context, userID string, embedding []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.embeddingSaves++
	m.embeddings[userID] = copyVector(embedding)
	return nil
}

func (m *mockStore) genreWeights(userID string) map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyWeights(m.weights[userID])
}

func (m *mockStore) embedding(userID string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyVector(m.embeddings[userID])
}

// mockCache is an in-memory ProfileCache with injectable failures.
type mockCache struct {
	mu         sync.Mutex
	weights    map[string]map[string]float64
	embeddings map[string][]float64

	getErr error
	setErr error
}

func newMockCache() *mockCache {
	return &mockCache{
		weights:    make(map[string]map[string]float64),
		embeddings: make(map[string][]float64),
	}
}

func (m *mockCache) GetEmbedding(_ context.Context, userID string) ([]float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	e, ok := m.embeddings[userID]
	return copyVector(e), ok, nil
}

func (m *mockCache) SetEmbedding(_ context.Context, userID string, embedding []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.embeddings[userID] = copyVector(embedding)
	return nil
}

func (m *mockCache) GetGenreWeights(_ context.Context, userID string) (map[string]float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	w, ok := m.weights[userID]
	return copyWeights(w), ok, nil
}

func (m *mockCache) SetGenreWeights(_ context.Context, userID string, weights map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.weights[userID] = copyWeights(weights)
	return nil
}

// mockBooks is a BookFinder and CatalogSource over a fixed list.
type mockBooks struct {
	mu      sync.Mutex
	books   []catalog.Book
	findErr error
}

func newMockBooks(books ...catalog.Book) *mockBooks {
	return &mockBooks{books: books}
}

func (m *mockBooks) FindBook(_ context.Context, id primitive.ObjectID) (catalog.Book, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return catalog.Book{}, false, m.findErr
	}
	for _, b := range m.books {
		if b.ID == id {
			return b, true, nil
		}
	}
	return catalog.Book{}, false, nil
}

func (m *mockBooks) Books() []catalog.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]catalog.Book, len(m.books))
	copy(out, m.books)
	return out
}

// mockShelves is a ShelfReader over fixed per-user data.
type mockShelves struct {
	mu       sync.Mutex
	read     map[string][]primitive.ObjectID
	toRead   map[string][]primitive.ObjectID
	events   map[string][]RatingEvent
	wishlist map[string][]primitive.ObjectID
	err      error
}

func newMockShelves() *mockShelves {
	return &mockShelves{
		read:     make(map[string][]primitive.ObjectID),
		toRead:   make(map[string][]primitive.ObjectID),
		events:   make(map[string][]RatingEvent),
		wishlist: make(map[string][]primitive.ObjectID),
	}
}

func (m *mockShelves) ShelfMembership(_ context.Context, userID string) (Shelves, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Shelves{}, m.err
	}
	s := Shelves{
		Read:   make(map[primitive.ObjectID]struct{}),
		ToRead: make(map[primitive.ObjectID]struct{}),
	}
	for _, id := range m.read[userID] {
		s.Read[id] = struct{}{}
	}
	for _, id := range m.toRead[userID] {
		s.ToRead[id] = struct{}{}
	}
	return s, nil
}

func (m *mockShelves) RatingEvents(_ context.Context, userID string) ([]RatingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]RatingEvent(nil), m.events[userID]...), nil
}

func (m *mockShelves) WishlistItems(_ context.Context, userID string) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]primitive.ObjectID(nil), m.wishlist[userID]...), nil
}

// passthroughBackfill returns books unchanged.
type passthroughBackfill struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *passthroughBackfill) Backfill(_ context.Context, books []catalog.Book) ([]catalog.Book, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return books, p.err
}

func copyWeights(w map[string]float64) map[string]float64 {
	if w == nil {
		return nil
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func copyVector(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
