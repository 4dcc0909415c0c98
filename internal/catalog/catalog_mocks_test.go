// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockStore implements Store for testing.
type mockStore struct {
	mu        sync.Mutex
	books     []Book
	err       error
	calls     int32
	lastLimit int
	block     chan struct{}
}

func (m *mockStore) LoadCatalog(ctx context.Context, limit int) ([]Book, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Book, len(m.books))
	copy(out, m.books)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) setBooks(books []Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = books
}

// mockEncoder implements Encoder for testing.
type mockEncoder struct {
	dim   int
	err   error
	delay time.Duration
	calls int32
	texts int32
}

func (m *mockEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	atomic.AddInt32(&m.calls, 1)
	atomic.AddInt32(&m.texts, int32(len(texts)))
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, m.dim)
		v[0] = float64(len(text))
		out[i] = v
	}
	return out, nil
}

func (m *mockEncoder) Dimension() int {
	return m.dim
}

// mockWriter implements EmbeddingWriter for testing.
type mockWriter struct {
	mu      sync.Mutex
	written map[primitive.ObjectID][]float64
	failFor map[primitive.ObjectID]bool
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		written: make(map[primitive.ObjectID][]float64),
		failFor: make(map[primitive.ObjectID]bool),
	}
}

func (m *mockWriter) PersistEmbedding(ctx context.Context, id primitive.ObjectID, embedding []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[id] {
		return errWrite
	}
	m.written[id] = embedding
	return nil
}

func (m *mockWriter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.written)
}

func makeBooks(n int, withEmbedding bool) []Book {
	books := make([]Book, n)
	for i := range books {
		books[i] = Book{
			ID:        primitive.NewObjectID(),
			Title:     "Book",
			Authors:   []string{"Author"},
			GenreTags: []string{"Fantasy"},
			Summary:   "A summary of some length",
		}
		if withEmbedding {
			books[i].Embedding = []float64{1, 0, 0}
		}
	}
	return books
}
