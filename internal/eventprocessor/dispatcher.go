// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// SignalApplier folds preference signals into user profiles.
// *recommend.Engine implements it.
type SignalApplier interface {
	ApplyRating(ctx context.Context, userID string, bookID primitive.ObjectID, rating string) (recommend.ApplyResult, error)
	ApplyWishlist(ctx context.Context, userID string, bookID primitive.ObjectID) (recommend.ApplyResult, error)
	ApplyOnboarding(ctx context.Context, userID string, genres []string) (recommend.ApplyResult, error)
}

// Signal processing outcomes used as the metrics result label.
const (
	resultMalformed = "malformed"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

// Dispatcher decodes signal payloads and applies them to profiles.
type Dispatcher struct {
	applier SignalApplier
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given applier.
func NewDispatcher(applier SignalApplier, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		applier: applier,
		logger:  logger.With().Str("component", "signal_dispatcher").Logger(),
	}
}

// Handle processes one payload. It returns nil when the message should be
// acknowledged: applied, skipped, malformed or rejected as invalid. Store
// and cache write failures are returned so the message is redelivered.
func (d *Dispatcher) Handle(ctx context.Context, payload []byte) error {
	start := time.Now()

	sig, err := ParseSignal(payload)
	if err != nil {
		d.logger.Warn().Err(err).Int("bytes", len(payload)).Msg("Dropping malformed signal")
		metrics.RecordSignal("unknown", resultMalformed, time.Since(start))
		return nil
	}

	res, err := d.apply(ctx, sig)
	kind := string(sig.Kind)
	if err != nil {
		if recommend.IsKind(err, recommend.KindInvalidArgument) {
			d.logger.Warn().Err(err).Str("kind", kind).Str("user_id", sig.UserID).Msg("Signal rejected")
			metrics.RecordSignal(kind, resultRejected, time.Since(start))
			return nil
		}
		metrics.RecordSignal(kind, resultFailed, time.Since(start))
		return fmt.Errorf("apply %s signal for %s: %w", kind, sig.UserID, err)
	}

	metrics.RecordSignal(kind, res.Status.String(), time.Since(start))
	d.logger.Debug().
		Str("kind", kind).
		Str("user_id", sig.UserID).
		Str("status", res.Status.String()).
		Int("genres_touched", res.GenresTouched).
		Bool("embedding_updated", res.EmbeddingUpdated).
		Msg("Signal applied")
	return nil
}

func (d *Dispatcher) apply(ctx context.Context, sig *Signal) (recommend.ApplyResult, error) {
	switch sig.Kind {
	case KindRating:
		return d.applier.ApplyRating(ctx, sig.UserID, sig.BookObjectID(), sig.Rating)
	case KindWishlist:
		return d.applier.ApplyWishlist(ctx, sig.UserID, sig.BookObjectID())
	case KindOnboarding:
		return d.applier.ApplyOnboarding(ctx, sig.UserID, sig.Genres)
	default:
		// ParseSignal only lets known kinds through.
		return recommend.ApplyResult{Status: recommend.StatusSkippedEmptySignal}, nil
	}
}
