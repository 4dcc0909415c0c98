// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// Encoder turns texts into fixed-length vectors.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// EmbeddingWriter persists a computed book embedding.
type EmbeddingWriter interface {
	PersistEmbedding(ctx context.Context, id primitive.ObjectID, embedding []float64) error
}

// EmbeddingPublisher receives embeddings once they are persisted.
// *Snapshot implements it.
type EmbeddingPublisher interface {
	ApplyEmbeddings(updates map[primitive.ObjectID][]float64) int
}

// BackfillConfig controls encoder batching and pacing.
type BackfillConfig struct {
	// BatchSize is the number of summaries per encoder call.
	// Default: 32.
	BatchSize int

	// Concurrency is the number of batches encoded in parallel.
	// Default: 2.
	Concurrency int

	// RatePerSecond limits encoder calls per second. Zero disables limiting.
	// Default: 10.
	RatePerSecond float64

	// Burst is the limiter burst size.
	// Default: 2.
	Burst int
}

// DefaultBackfillConfig returns the production defaults.
func DefaultBackfillConfig() BackfillConfig {
	return BackfillConfig{
		BatchSize:     32,
		Concurrency:   2,
		RatePerSecond: 10,
		Burst:         2,
	}
}

// Backfiller computes missing book embeddings on demand.
type Backfiller struct {
	encoder   Encoder
	writer    EmbeddingWriter
	publisher EmbeddingPublisher
	cfg       BackfillConfig
	limiter   *rate.Limiter
	logger    zerolog.Logger

	// inflight collapses identical batches requested by concurrent callers
	// that observed the same snapshot generation.
	inflight singleflight.Group
}

// NewBackfiller creates a Backfiller. publisher may be nil.
func NewBackfiller(encoder Encoder, writer EmbeddingWriter, publisher EmbeddingPublisher, cfg BackfillConfig, logger zerolog.Logger) *Backfiller {
	def := DefaultBackfillConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Backfiller{
		encoder:   encoder,
		writer:    writer,
		publisher: publisher,
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, cfg.Burst),
		logger:    logger.With().Str("component", "backfill").Logger(),
	}
}

// batchResult maps book ids to their new embeddings.
type batchResult map[primitive.ObjectID][]float64

// Backfill returns a copy of books with every missing embedding that could be
// computed filled in. The input slice is not modified. Embeddings are
// persisted before they are published to the snapshot. The returned error
// joins per-batch failures; the returned books are usable even when it is
// non-nil.
func (b *Backfiller) Backfill(ctx context.Context, books []Book) ([]Book, error) {
	missing := MissingEmbeddings(books)
	if len(missing) == 0 {
		return books, nil
	}

	start := time.Now()
	b.logger.Debug().Int("missing", len(missing)).Msg("Backfilling book embeddings")

	var (
		mu      sync.Mutex
		updates = make(batchResult, len(missing))
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)

	for lo := 0; lo < len(missing); lo += b.cfg.BatchSize {
		hi := lo + b.cfg.BatchSize
		if hi > len(missing) {
			hi = len(missing)
		}
		batch := missing[lo:hi]

		g.Go(func() error {
			res, err := b.runBatch(gctx, batch)
			mu.Lock()
			defer mu.Unlock()
			for id, emb := range res {
				updates[id] = emb
			}
			if err != nil {
				errs = append(errs, err)
			}
			// Batch failures are collected rather than cancelling siblings.
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	metrics.RecordBackfill(len(updates), len(missing)-len(updates), time.Since(start))

	if len(updates) == 0 {
		return books, err
	}

	if b.publisher != nil {
		b.publisher.ApplyEmbeddings(updates)
	}

	out := make([]Book, len(books))
	copy(out, books)
	for i := range out {
		if emb, ok := updates[out[i].ID]; ok {
			out[i].Embedding = emb
		}
	}

	b.logger.Info().
		Int("updated", len(updates)).
		Int("missing", len(missing)).
		Dur("duration", time.Since(start)).
		Msg("Backfilled book embeddings")

	return out, err
}

// runBatch encodes and persists one batch, sharing the work with any
// concurrent caller asking for the same batch.
func (b *Backfiller) runBatch(ctx context.Context, batch []Book) (batchResult, error) {
	v, err, shared := b.inflight.Do(batchKey(batch), func() (interface{}, error) {
		return b.encodeAndPersist(ctx, batch)
	})
	if shared {
		b.logger.Debug().Int("batch", len(batch)).Msg("Joined in-flight backfill batch")
	}
	res, _ := v.(batchResult) //nolint:errcheck // nil on failure
	return res, err
}

func (b *Backfiller) encodeAndPersist(ctx context.Context, batch []Book) (batchResult, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("backfill rate limit: %w", err)
	}

	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Summary
	}

	vectors, err := b.encoder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("encode %d summaries: %w", len(texts), err)
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d summaries", len(vectors), len(batch))
	}

	dim := b.encoder.Dimension()
	res := make(batchResult, len(batch))
	var errs []error
	for i := range batch {
		if dim > 0 && len(vectors[i]) != dim {
			errs = append(errs, fmt.Errorf("book %s: embedding has %d dims, want %d", batch[i].ID.Hex(), len(vectors[i]), dim))
			continue
		}
		if err := b.writer.PersistEmbedding(ctx, batch[i].ID, vectors[i]); err != nil {
			errs = append(errs, fmt.Errorf("persist embedding for %s: %w", batch[i].ID.Hex(), err))
			continue
		}
		res[batch[i].ID] = vectors[i]
	}
	return res, errors.Join(errs...)
}

func batchKey(batch []Book) string {
	var sb strings.Builder
	sb.Grow(len(batch) * 25)
	for i := range batch {
		sb.WriteString(batch[i].ID.Hex())
		sb.WriteByte(',')
	}
	return sb.String()
}
