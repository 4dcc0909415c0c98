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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/logging"
)

// catalogProjection lists the catalog fields loaded into the snapshot.
var catalogProjection = bson.M{
	"title":            1,
	"author":           1,
	"genre_tags":       1,
	"summary":          1,
	"embedding":        1,
	"publication_date": 1,
	"isbn":             1,
	"isbn13":           1,
	"cover_image":      1,
	"publisher":        1,
	"page_count":       1,
	"language":         1,
}

// LoadCatalog reads up to limit books in _id order. A limit of zero or less
// reads the whole collection. Documents that fail to decode are skipped.
//
// The query timeout is not applied here; a full catalog read is bounded by
// the caller's context.
func (db *DB) LoadCatalog(ctx context.Context, limit int) ([]catalog.Book, error) {
	opts := options.Find().
		SetProjection(catalogProjection).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	start := time.Now()
	cur, err := db.books().Find(ctx, bson.D{}, opts)
	if err != nil {
		observe("load_catalog", CollectionBooks, start, err)
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer closeCursor(ctx, cur)

	books := make([]catalog.Book, 0, max(limit, 0))
	skipped := 0
	for cur.Next(ctx) {
		var b catalog.Book
		if err := cur.Decode(&b); err != nil {
			skipped++
			logging.Warn().Err(err).Str("raw_id", rawID(cur.Current)).Msg("Skipping undecodable book")
			continue
		}
		books = append(books, b)
	}
	err = cur.Err()
	observe("load_catalog", CollectionBooks, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Int("loaded", len(books)).Msg("Catalog loaded with skipped documents")
	}
	return books, nil
}

// FindBook returns one book. found is false when no document has the id.
func (db *DB) FindBook(ctx context.Context, id primitive.ObjectID) (catalog.Book, bool, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	var b catalog.Book
	err := db.books().FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(catalogProjection)).Decode(&b)
	observe("find_book", CollectionBooks, start, err)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.Book{}, false, nil
	}
	if err != nil {
		return catalog.Book{}, false, fmt.Errorf("failed to find book %s: %w", id.Hex(), err)
	}
	return b, true, nil
}

// PersistEmbedding stores a computed summary embedding on the book.
func (db *DB) PersistEmbedding(ctx context.Context, id primitive.ObjectID, embedding []float64) error {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"embedding": embedding}})
	observe("persist_embedding", CollectionBooks, start, err)
	if err != nil {
		return fmt.Errorf("failed to persist embedding for %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		logging.Warn().Str("book_id", id.Hex()).Msg("Embedding computed for a book no longer in the store")
	}
	return nil
}

func closeCursor(ctx context.Context, cur *mongo.Cursor) {
	if err := cur.Close(ctx); err != nil {
		logging.Debug().Err(err).Msg("Cursor close failed")
	}
}

// rawID extracts the _id of an undecodable document for logging.
func rawID(raw bson.Raw) string {
	v, err := raw.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return v.String()
}
