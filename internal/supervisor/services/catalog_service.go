// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/catalog"
)

// CatalogSnapshot is the part of *catalog.Snapshot the service drives.
type CatalogSnapshot interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	Books() []catalog.Book
	Loaded() bool
}

// EmbeddingBackfiller fills in missing book embeddings.
type EmbeddingBackfiller interface {
	Backfill(ctx context.Context, books []catalog.Book) ([]catalog.Book, error)
}

// CatalogServiceConfig controls the refresh schedule.
type CatalogServiceConfig struct {
	// RefreshInterval between store reads. Default 24h.
	RefreshInterval time.Duration

	// RefreshOnStart skips the disk cache on the first load.
	RefreshOnStart bool

	// RefreshTimeout bounds one refresh plus backfill. Default 30m.
	RefreshTimeout time.Duration
}

// CatalogService keeps the catalog snapshot current.
//
// The first load uses the disk cache when present (unless RefreshOnStart)
// and fails the service if nothing could be loaded, so suture retries with
// backoff. Later refresh failures are logged and the previous snapshot
// keeps serving.
type CatalogService struct {
	snapshot CatalogSnapshot
	backfill EmbeddingBackfiller
	config   CatalogServiceConfig
	logger   zerolog.Logger
}

// NewCatalogService creates the service. backfill may be nil when no encoder
// is configured.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogService(snapshot CatalogSnapshot, backfill EmbeddingBackfiller, cfg CatalogServiceConfig, logger zerolog.Logger) *CatalogService {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 24 * time.Hour
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 30 * time.Minute
	}
	return &CatalogService{
		snapshot: snapshot,
		backfill: backfill,
		config:   cfg,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CatalogService) Serve(ctx context.Context) error {
	if !s.snapshot.Loaded() {
		if err := s.initialLoad(ctx); err != nil {
			return fmt.Errorf("initial catalog load: %w", err)
		}
		s.runBackfill(ctx)
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	s.logger.Info().Dur("refresh_interval", s.config.RefreshInterval).Msg("Catalog service running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *CatalogService) initialLoad(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
	defer cancel()

	if s.config.RefreshOnStart {
		return s.snapshot.Refresh(loadCtx)
	}
	return s.snapshot.Load(loadCtx)
}

// refresh runs one scheduled cycle. Failures keep the previous snapshot.
func (s *CatalogService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
	defer cancel()

	if err := s.snapshot.Refresh(refreshCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled catalog refresh failed, keeping previous snapshot")
		return
	}
	s.runBackfill(refreshCtx)
}

func (s *CatalogService) runBackfill(ctx context.Context) {
	if s.backfill == nil {
		return
	}
	books := s.snapshot.Books()
	if len(catalog.MissingEmbeddings(books)) == 0 {
		return
	}
	if _, err := s.backfill.Backfill(ctx, books); err != nil {
		s.logger.Warn().Err(err).Msg("Embedding backfill incomplete")
	}
}

// String implements fmt.Stringer for suture logging.
func (s *CatalogService) String() string {
	return "catalog-refresh"
}
