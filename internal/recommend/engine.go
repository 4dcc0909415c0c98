// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// Dependencies are the collaborators the engine is built from. Cache and
// Backfill may be nil. Without a Backfill (no encoder configured)
// recommendations are always empty.
type Dependencies struct {
	Store    PreferenceStore
	Cache    ProfileCache
	Shelves  ShelfReader
	Books    BookFinder
	Catalog  CatalogSource
	Backfill Backfiller
}

func (d *Dependencies) validate() error {
	var errs []error
	if d.Store == nil {
		errs = append(errs, errors.New("preference store is required"))
	}
	if d.Shelves == nil {
		errs = append(errs, errors.New("shelf reader is required"))
	}
	if d.Books == nil {
		errs = append(errs, errors.New("book finder is required"))
	}
	if d.Catalog == nil {
		errs = append(errs, errors.New("catalog source is required"))
	}
	return errors.Join(errs...)
}

// Engine scores and selects recommendations and applies preference signals.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	repo     *ProfileRepository
	updater  *Updater
	scorer   *Scorer
	selector *Selector

	catalog  CatalogSource
	shelves  ShelfReader
	backfill Backfiller

	requestCount  atomic.Int64
	emptyCount    atomic.Int64
	errorCount    atomic.Int64
	updateCount   atomic.Int64
	backfillFails atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger = logger.With().Str("component", "recommend").Logger()
	repo := NewProfileRepository(deps.Store, deps.Cache, cfg.Scoring.EmbeddingDim, logger)

	return &Engine{
		config:   cfg,
		logger:   logger,
		repo:     repo,
		updater:  NewUpdater(repo, deps.Books, deps.Shelves, cfg.Signals, cfg.Scoring.EmbeddingDim, logger),
		scorer:   NewScorer(cfg.Scoring.BlendWeight),
		selector: NewSelector(cfg.Selection, seed),
		catalog:  deps.Catalog,
		shelves:  deps.Shelves,
		backfill: deps.Backfill,
	}, nil
}

// Recommend scores the catalog for a user and selects a short list.
//
// An empty catalog, a catalog with every book shelved, or a missing encoder
// produce an empty list. Store failures while reading the profile or shelves are
// returned as errors together with an empty response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req, err := e.prepareRequest(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		return e.emptyResponse(req, start, StrategyEmpty, 0), err
	}
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	books := e.catalog.Books()
	if len(books) == 0 {
		logger.Debug().Msg("catalog empty")
		return e.emptyResponse(req, start, StrategyEmpty, 0), nil
	}
	if e.backfill == nil {
		logger.Warn().Msg("no encoder configured, returning no recommendations")
		return e.emptyResponse(req, start, StrategyEmpty, 0), nil
	}

	profile, err := e.repo.Load(ctx, req.UserID)
	if err != nil {
		e.errorCount.Add(1)
		return e.emptyResponse(req, start, StrategyEmpty, 0), err
	}

	shelves, err := e.shelves.ShelfMembership(ctx, req.UserID)
	if err != nil {
		e.errorCount.Add(1)
		return e.emptyResponse(req, start, StrategyEmpty, 0),
			wrapKind(KindStoreUnavailable, err, req.UserID, "load shelf membership")
	}

	books, err = e.backfill.Backfill(ctx, books)
	if err != nil {
		e.backfillFails.Add(1)
		logger.Warn().Err(err).Msg("embedding backfill incomplete, scoring with available embeddings")
	}

	ranked, strategy := e.scorer.Rank(profile, books, shelves)
	if len(ranked) == 0 {
		logger.Debug().Msg("no unshelved candidates")
		return e.emptyResponse(req, start, strategy, 0), nil
	}

	selected := e.selector.Select(ranked, req.Count)
	resp := e.buildResponse(req, selected, strategy, len(ranked), start)

	logger.Debug().
		Str("strategy", strategy.String()).
		Int("candidates", len(ranked)).
		Int("returned", len(selected)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// RecommendFresh rebuilds the user's profile from shelf history and then
// recommends from it.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendFresh(ctx context.Context, req Request) (*Response, error) {
	if req.UserID == "" {
		return e.Recommend(ctx, req)
	}
	if _, err := e.Rebuild(ctx, req.UserID); err != nil {
		e.errorCount.Add(1)
		return e.emptyResponse(req, time.Now(), StrategyEmpty, 0), err
	}
	return e.Recommend(ctx, req)
}

// ApplyRating folds a pos/neg/mid rating into the user's profile.
func (e *Engine) ApplyRating(ctx context.Context, userID string, bookID primitive.ObjectID, rating string) (ApplyResult, error) {
	if userID == "" {
		return ApplyResult{}, newKind(KindInvalidArgument, userID, "user id is required")
	}
	e.updateCount.Add(1)
	return e.updater.ApplyRating(ctx, userID, bookID, rating)
}

// ApplyWishlist folds a to-read shelving into the user's profile.
func (e *Engine) ApplyWishlist(ctx context.Context, userID string, bookID primitive.ObjectID) (ApplyResult, error) {
	if userID == "" {
		return ApplyResult{}, newKind(KindInvalidArgument, userID, "user id is required")
	}
	e.updateCount.Add(1)
	return e.updater.ApplyWishlist(ctx, userID, bookID)
}

// ApplyOnboarding seeds the user's genre weights from onboarding choices.
func (e *Engine) ApplyOnboarding(ctx context.Context, userID string, genres []string) (ApplyResult, error) {
	if userID == "" {
		return ApplyResult{}, newKind(KindInvalidArgument, userID, "user id is required")
	}
	e.updateCount.Add(1)
	return e.updater.ApplyOnboarding(ctx, userID, genres)
}

// Rebuild resets the user's profile and replays their shelves into it.
func (e *Engine) Rebuild(ctx context.Context, userID string) (RebuildResult, error) {
	if userID == "" {
		return RebuildResult{}, newKind(KindInvalidArgument, userID, "user id is required")
	}
	e.updateCount.Add(1)
	return e.updater.Rebuild(ctx, userID)
}

// Profile returns the user's current profile as the scorer would see it.
func (e *Engine) Profile(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, newKind(KindInvalidArgument, userID, "user id is required")
	}
	return e.repo.Load(ctx, userID)
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:  e.requestCount.Load(),
		EmptyCount:    e.emptyCount.Load(),
		ErrorCount:    e.errorCount.Load(),
		UpdateCount:   e.updateCount.Load(),
		BackfillFails: e.backfillFails.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// prepareRequest applies defaults and picks up the request ID.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(ctx context.Context, req Request) (Request, error) {
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(ctx)
	}
	if req.RequestID == "" {
		req.RequestID = logging.GenerateRequestID()
	}

	if req.UserID == "" {
		return req, newKind(KindInvalidArgument, "", "user id is required")
	}
	if req.Count < 0 {
		return req, newKind(KindInvalidArgument, req.UserID, "count must be non-negative, got %d", req.Count)
	}
	if req.Count == 0 {
		req.Count = e.config.Selection.DefaultCount
	}
	if req.Count > e.config.Selection.MaxCount {
		req.Count = e.config.Selection.MaxCount
	}
	return req, nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Int("count", req.Count).
		Logger()
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, books []catalog.Book, strategy Strategy, candidates int, start time.Time) *Response {
	if books == nil {
		books = []catalog.Book{}
	}
	if len(books) == 0 {
		e.emptyCount.Add(1)
	}
	elapsed := time.Since(start)
	metrics.RecordRecommendation(strategy.String(), elapsed, len(books))

	return &Response{
		Books: books,
		Metadata: ResponseMetadata{
			RequestID:   req.RequestID,
			Strategy:    strategy.String(),
			Candidates:  candidates,
			LatencyMS:   elapsed.Milliseconds(),
			GeneratedAt: time.Now(),
		},
	}
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) emptyResponse(req Request, start time.Time, strategy Strategy, candidates int) *Response {
	return e.buildResponse(req, nil, strategy, candidates, start)
}
