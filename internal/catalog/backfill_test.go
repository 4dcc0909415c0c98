// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errWrite = errors.New("write failed")

func newTestBackfiller(enc Encoder, w EmbeddingWriter, p EmbeddingPublisher, batch int) *Backfiller {
	return NewBackfiller(enc, w, p, BackfillConfig{
		BatchSize:   batch,
		Concurrency: 2,
	}, testLogger())
}

func TestBackfiller_NothingMissing(t *testing.T) {
	t.Parallel()

	enc := &mockEncoder{dim: 3}
	b := newTestBackfiller(enc, newMockWriter(), nil, 8)

	books := makeBooks(4, true)
	out, err := b.Backfill(context.Background(), books)
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if len(out) != 4 {
		t.Errorf("len = %d, want 4", len(out))
	}
	if atomic.LoadInt32(&enc.calls) != 0 {
		t.Errorf("encoder called %d times, want 0", enc.calls)
	}
}

func TestBackfiller_FillsPersistsAndPublishes(t *testing.T) {
	t.Parallel()

	books := append(makeBooks(5, false), makeBooks(2, true)...)
	s := NewSnapshot(&mockStore{books: books}, testLogger())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	enc := &mockEncoder{dim: 3}
	w := newMockWriter()
	b := newTestBackfiller(enc, w, s, 2)

	out, err := b.Backfill(context.Background(), s.Books())
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}

	for i := range out {
		if !out[i].HasEmbedding() {
			t.Errorf("book %d still missing embedding", i)
		}
	}
	if w.count() != 5 {
		t.Errorf("persisted %d embeddings, want 5", w.count())
	}
	if got := atomic.LoadInt32(&enc.calls); got != 3 {
		t.Errorf("encoder calls = %d, want 3 batches", got)
	}
	if missing := MissingEmbeddings(s.Books()); len(missing) != 0 {
		t.Errorf("snapshot still has %d books without embeddings", len(missing))
	}
	if books[0].HasEmbedding() {
		t.Error("input slice was modified")
	}
}

func TestBackfiller_EncoderFailure(t *testing.T) {
	t.Parallel()

	enc := &mockEncoder{dim: 3, err: errors.New("model unavailable")}
	w := newMockWriter()
	b := newTestBackfiller(enc, w, nil, 8)

	books := makeBooks(3, false)
	out, err := b.Backfill(context.Background(), books)
	if err == nil {
		t.Fatal("Backfill() error = nil, want encoder error")
	}
	if len(out) != 3 {
		t.Errorf("len = %d, want books returned unchanged", len(out))
	}
	if w.count() != 0 {
		t.Errorf("persisted %d embeddings, want 0", w.count())
	}
}

func TestBackfiller_PersistFailureSkipsBook(t *testing.T) {
	t.Parallel()

	books := makeBooks(3, false)
	w := newMockWriter()
	w.failFor[books[1].ID] = true

	b := newTestBackfiller(&mockEncoder{dim: 3}, w, nil, 8)
	out, err := b.Backfill(context.Background(), books)
	if !errors.Is(err, errWrite) {
		t.Fatalf("Backfill() error = %v, want errWrite", err)
	}
	if out[1].HasEmbedding() {
		t.Error("unpersisted embedding was used")
	}
	if !out[0].HasEmbedding() || !out[2].HasEmbedding() {
		t.Error("persisted embeddings missing from result")
	}
}

func TestBackfiller_DimensionMismatch(t *testing.T) {
	t.Parallel()

	enc := &wrongDimEncoder{mockEncoder{dim: 4}}
	b := newTestBackfiller(enc, newMockWriter(), nil, 8)

	out, err := b.Backfill(context.Background(), makeBooks(2, false))
	if err == nil {
		t.Fatal("Backfill() error = nil, want dimension error")
	}
	if len(MissingEmbeddings(out)) != 2 {
		t.Error("mismatched embeddings were accepted")
	}
}

type wrongDimEncoder struct{ mockEncoder }

func (w *wrongDimEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range out {
		out[i] = []float64{1}
	}
	return out, nil
}

func TestBackfiller_ConcurrentCallersShareBatch(t *testing.T) {
	t.Parallel()

	enc := &mockEncoder{dim: 3, delay: 50 * time.Millisecond}
	w := newMockWriter()
	b := newTestBackfiller(enc, w, nil, 16)

	books := makeBooks(6, false)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			out, err := b.Backfill(context.Background(), books)
			if err != nil {
				t.Errorf("Backfill() error = %v", err)
				return
			}
			if len(MissingEmbeddings(out)) != 0 {
				t.Error("concurrent caller got incomplete result")
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&enc.calls); got >= 4 {
		t.Errorf("encoder calls = %d, want collapsed below 4", got)
	}
}
