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

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// userPreferences is the preference projection of a Users document.
type userPreferences struct {
	GenreWeights map[string]float64 `bson:"genre_weights,omitempty"`
	Embedding    []float64          `bson:"embedding,omitempty"`
}

var preferenceProjection = bson.M{"genre_weights": 1, "embedding": 1}

// LoadPreference reads the stored profile of a user. found is false when the
// user document does not exist.
func (db *DB) LoadPreference(ctx context.Context, userID string) (recommend.Profile, bool, error) {
	oid, err := ParseObjectID(userID)
	if err != nil {
		return recommend.Profile{}, false, err
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	var doc userPreferences
	err = db.users().FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(preferenceProjection)).Decode(&doc)
	observe("load_preference", CollectionUsers, start, err)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return recommend.Profile{UserID: userID}, false, nil
	}
	if err != nil {
		return recommend.Profile{}, false, fmt.Errorf("failed to load preferences for %s: %w", userID, err)
	}

	return recommend.Profile{
		UserID:       userID,
		GenreWeights: doc.GenreWeights,
		Embedding:    doc.Embedding,
	}, true, nil
}

// SaveGenreWeights replaces the user's genre weight map.
func (db *DB) SaveGenreWeights(ctx context.Context, userID string, weights map[string]float64) error {
	if weights == nil {
		weights = map[string]float64{}
	}
	return db.setUserField(ctx, "save_genre_weights", userID, "genre_weights", weights)
}

// SaveEmbedding replaces the user's preference embedding.
func (db *DB) SaveEmbedding(ctx context.Context, userID string, embedding []float64) error {
	if embedding == nil {
		embedding = []float64{}
	}
	return db.setUserField(ctx, "save_embedding", userID, "embedding", embedding)
}

// setUserField updates one field of an existing user. Users are created by
// the account service, so a missing document is reported as
// recommend.ErrUserNotFound and nothing is written.
func (db *DB) setUserField(ctx context.Context, op, userID, field string, value any) error {
	oid, err := ParseObjectID(userID)
	if err != nil {
		return err
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.users().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value}})
	observe(op, CollectionUsers, start, err)
	if err != nil {
		return fmt.Errorf("failed to update %s for %s: %w", field, userID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s for %s: %w", field, userID, recommend.ErrUserNotFound)
	}
	return nil
}
