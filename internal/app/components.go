// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfwise/internal/cache"
	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/encoder"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/supervisor/services"
)

// Components holds everything the server and the operator CLI share.
type Components struct {
	Config *config.Config

	// DB serves books and shelves, and preferences unless the badger
	// backend is selected.
	DB          *database.DB
	Preferences recommend.PreferenceStore
	Cache       *cache.ProfileCache

	// Encoder and Backfiller are nil when the encoder provider is "none".
	Encoder    encoder.Encoder
	Backfiller *catalog.Backfiller

	Snapshot *catalog.Snapshot
	Engine   *recommend.Engine

	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// Build connects to the stores and assembles the engine. The catalog
// snapshot is created empty; callers decide when to Load or Refresh it.
// On error every resource opened so far is released.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *Components, err error) {
	c := &Components{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	db, err := database.New(ctx, &cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c.DB = db
	c.onClose("mongo", db.Close)

	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	if err := c.openPreferences(); err != nil {
		return nil, err
	}

	store, err := cache.NewStore(ctx, CacheConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	c.Cache = cache.NewProfileCache(store, cfg.Cache.TTL)
	c.onClose("cache", c.Cache.Close)

	var opts []catalog.SnapshotOption
	if cfg.Catalog.CachePath != "" {
		opts = append(opts, catalog.WithDiskCache(catalog.NewDiskCache(cfg.Catalog.CachePath)))
	}
	if cfg.Catalog.MaxItems > 0 {
		opts = append(opts, catalog.WithMaxItems(cfg.Catalog.MaxItems))
	}
	c.Snapshot = catalog.NewSnapshot(db, logger, opts...)

	enc, err := encoder.New(EncoderConfig(cfg.Encoder), logger)
	switch {
	case errors.Is(err, encoder.ErrDisabled):
		logger.Warn().Msg("Encoder disabled, recommendations will be empty")
	case err != nil:
		return nil, fmt.Errorf("create encoder: %w", err)
	default:
		c.Encoder = enc
		c.onClose("encoder", func() error { return encoder.Close(enc) })
		c.Backfiller = catalog.NewBackfiller(enc, db, c.Snapshot, BackfillConfig(cfg.Catalog), logger)
	}

	deps := recommend.Dependencies{
		Store:   c.Preferences,
		Cache:   c.Cache,
		Shelves: db,
		Books:   db,
		Catalog: c.Snapshot,
	}
	// Assigned only when present so the interface stays nil otherwise.
	if c.Backfiller != nil {
		deps.Backfill = c.Backfiller
	}

	engine, err := recommend.NewEngine(EngineConfig(cfg), deps, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	c.Engine = engine

	logger.Info().
		Str("preferences", cfg.Preferences.Backend).
		Str("cache", cfg.Cache.Backend).
		Str("encoder", cfg.Encoder.Provider).
		Msg("Components initialized")
	return c, nil
}

func (c *Components) openPreferences() error {
	switch c.Config.Preferences.Backend {
	case "badger":
		prefs, err := database.OpenBadgerPreferenceStore(c.Config.Preferences.BadgerPath)
		if err != nil {
			return fmt.Errorf("open badger preferences: %w", err)
		}
		c.Preferences = prefs
		c.onClose("badger", prefs.Close)
	default:
		c.Preferences = c.DB
	}
	return nil
}

func (c *Components) onClose(name string, fn func() error) {
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

// Close releases resources in reverse order of acquisition.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.closers[i].name, err))
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// BackfillService returns the backfiller as an interface value that is nil
// when no encoder is configured.
func (c *Components) BackfillService() services.EmbeddingBackfiller {
	if c.Backfiller == nil {
		return nil
	}
	return c.Backfiller
}
