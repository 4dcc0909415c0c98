// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build integration

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/testinfra"
)

func setupMongo(t *testing.T) *DB {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, container) })

	db, err := New(ctx, &config.MongoConfig{
		URI:            container.URI,
		Database:       "shelfwise_test",
		ConnectTimeout: 20 * time.Second,
		QueryTimeout:   10 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}
	return db
}

func TestMongo_CatalogRoundTrip(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	withEmb := primitive.NewObjectID()
	without := primitive.NewObjectID()
	_, err := db.books().InsertMany(ctx, []any{
		bson.M{"_id": withEmb, "title": "Dune", "author": bson.A{"Frank Herbert"}, "genre_tags": bson.A{"Sci-Fi"}, "summary": "sand", "embedding": bson.A{0.1, 0.2}},
		bson.M{"_id": without, "title": "Emma", "author": bson.A{"Jane Austen"}, "genre_tags": bson.A{"Romance"}, "summary": "matchmaking"},
	})
	if err != nil {
		t.Fatalf("seed books: %v", err)
	}

	books, err := db.LoadCatalog(ctx, 10)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len(books) = %d, want 2", len(books))
	}

	limited, err := db.LoadCatalog(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("LoadCatalog(1) = %d books, err %v", len(limited), err)
	}

	if err := db.PersistEmbedding(ctx, without, []float64{0.3, 0.4}); err != nil {
		t.Fatalf("PersistEmbedding() error = %v", err)
	}
	b, found, err := db.FindBook(ctx, without)
	if err != nil || !found {
		t.Fatalf("FindBook() found %v, err %v", found, err)
	}
	if len(b.Embedding) != 2 || b.Embedding[1] != 0.4 {
		t.Errorf("Embedding = %v, want [0.3 0.4]", b.Embedding)
	}

	_, found, err = db.FindBook(ctx, primitive.NewObjectID())
	if err != nil || found {
		t.Errorf("FindBook(missing) found %v, err %v; want false, nil", found, err)
	}
}

func TestMongo_Preferences(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	if _, err := db.users().InsertOne(ctx, bson.M{"_id": userID, "username": "reader"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, found, err := db.LoadPreference(ctx, userID.Hex())
	if err != nil {
		t.Fatalf("LoadPreference() error = %v", err)
	}
	if !found {
		t.Error("found = false for an existing user")
	}

	if err := db.SaveGenreWeights(ctx, userID.Hex(), map[string]float64{"Fantasy": 1.5}); err != nil {
		t.Fatalf("SaveGenreWeights() error = %v", err)
	}
	if err := db.SaveEmbedding(ctx, userID.Hex(), []float64{0.25, 0.5}); err != nil {
		t.Fatalf("SaveEmbedding() error = %v", err)
	}

	p, _, err := db.LoadPreference(ctx, userID.Hex())
	if err != nil {
		t.Fatalf("LoadPreference() error = %v", err)
	}
	if p.GenreWeights["Fantasy"] != 1.5 || len(p.Embedding) != 2 {
		t.Errorf("profile = %+v", p)
	}

	// Unknown users are never created.
	ghost := primitive.NewObjectID().Hex()
	if err := db.SaveEmbedding(ctx, ghost, []float64{1}); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Fatalf("SaveEmbedding(ghost) error = %v, want ErrUserNotFound", err)
	}
	if err := db.SaveGenreWeights(ctx, ghost, map[string]float64{"Fantasy": 1}); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Fatalf("SaveGenreWeights(ghost) error = %v, want ErrUserNotFound", err)
	}
	if _, found, _ := db.LoadPreference(ctx, ghost); found {
		t.Error("ghost user was upserted")
	}
}

func TestMongo_Shelves(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	user := primitive.NewObjectID()
	read1, read2, toRead, reading := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	_, err := db.shelves().InsertMany(ctx, []any{
		bson.M{"user_id": user, "book_id": read1, "status": "Read", "rating": "pos"},
		bson.M{"user_id": user, "book_id": toRead, "status": "to read"},
		bson.M{"user_id": user, "book_id": read2, "status": "READ"},
		bson.M{"user_id": user, "book_id": reading, "status": "Currently Reading"},
		bson.M{"user_id": primitive.NewObjectID(), "book_id": read1, "status": "Read", "rating": "neg"},
	})
	if err != nil {
		t.Fatalf("seed shelves: %v", err)
	}

	shelves, err := db.ShelfMembership(ctx, user.Hex())
	if err != nil {
		t.Fatalf("ShelfMembership() error = %v", err)
	}
	if len(shelves.Read) != 2 || len(shelves.ToRead) != 1 {
		t.Errorf("shelves = %d read, %d to-read; want 2, 1", len(shelves.Read), len(shelves.ToRead))
	}
	if shelves.Contains(reading) {
		t.Error("currently reading book must stay a candidate")
	}

	events, err := db.RatingEvents(ctx, user.Hex())
	if err != nil {
		t.Fatalf("RatingEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].BookID != read1 || events[0].Rating != recommend.RatingPositive {
		t.Errorf("events[0] = %+v, want read1/pos", events[0])
	}
	if events[1].Rating != recommend.RatingNeutral {
		t.Errorf("events[1].Rating = %v, want mid for an unset rating", events[1].Rating)
	}

	wishlist, err := db.WishlistItems(ctx, user.Hex())
	if err != nil {
		t.Fatalf("WishlistItems() error = %v", err)
	}
	if len(wishlist) != 1 || wishlist[0] != toRead {
		t.Errorf("wishlist = %v, want [%s]", wishlist, toRead.Hex())
	}

	// Upsert replaces the status of an existing pair.
	if err := db.PutShelfEntry(ctx, user.Hex(), toRead, StatusRead, "neg"); err != nil {
		t.Fatalf("PutShelfEntry() error = %v", err)
	}
	shelves, _ = db.ShelfMembership(ctx, user.Hex())
	if len(shelves.Read) != 3 || len(shelves.ToRead) != 0 {
		t.Errorf("after PutShelfEntry: %d read, %d to-read; want 3, 0", len(shelves.Read), len(shelves.ToRead))
	}
}
