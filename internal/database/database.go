// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Collection names shared with the rest of the platform.
const (
	CollectionBooks   = "Books"
	CollectionUsers   = "Users"
	CollectionShelves = "UserBookshelf"
)

// closeTimeout bounds client disconnection on shutdown.
const closeTimeout = 10 * time.Second

// DB wraps the MongoDB client and provides data access methods for the
// catalog, user preferences and bookshelves.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.MongoConfig
}

// New connects to MongoDB and verifies the primary is reachable.
func New(ctx context.Context, cfg *config.MongoConfig) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetAppName("shelfwise")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	db := &DB{
		client: client,
		db:     client.Database(cfg.Database),
		cfg:    cfg,
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.disconnectQuietly()
		return nil, fmt.Errorf("failed to reach mongo: %w", err)
	}

	logging.Info().
		Str("database", cfg.Database).
		Msg("Connected to MongoDB")

	return db, nil
}

// Ping verifies the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	return nil
}

func (db *DB) disconnectQuietly() {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Mongo disconnect failed")
	}
}

// EnsureIndexes creates the indexes the shelf queries rely on. It is
// idempotent and safe to run on every start.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.shelves().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "book_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_book_unique"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_status"),
		},
	})
	observe("create_indexes", CollectionShelves, start, err)
	if err != nil {
		return fmt.Errorf("failed to create shelf indexes: %w", err)
	}
	return nil
}

func (db *DB) books() *mongo.Collection {
	return db.db.Collection(CollectionBooks)
}

func (db *DB) users() *mongo.Collection {
	return db.db.Collection(CollectionUsers)
}

func (db *DB) shelves() *mongo.Collection {
	return db.db.Collection(CollectionShelves)
}

// queryContext applies the configured per-query timeout.
func (db *DB) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.cfg == nil || db.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.cfg.QueryTimeout)
}

// observe records a store round-trip. A missing document is a successful
// lookup, not a failure.
func observe(operation, collection string, start time.Time, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = nil
	}
	metrics.RecordStoreQuery(operation, collection, time.Since(start), err)
}

var (
	_ recommend.PreferenceStore = (*DB)(nil)
	_ recommend.ShelfReader     = (*DB)(nil)
	_ recommend.BookFinder      = (*DB)(nil)
	_ catalog.Store             = (*DB)(nil)
	_ catalog.EmbeddingWriter   = (*DB)(nil)

	_ recommend.PreferenceStore = (*BadgerPreferenceStore)(nil)
)
