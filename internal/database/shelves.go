// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// Shelf statuses as stored in UserBookshelf. Matching is case-insensitive.
const (
	StatusToRead           = "To Read"
	StatusCurrentlyReading = "Currently Reading"
	StatusRead             = "Read"
)

// shelfEntry is one UserBookshelf document.
type shelfEntry struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id"`
	BookID primitive.ObjectID `bson:"book_id"`
	Status string             `bson:"status"`
	Rating string             `bson:"rating,omitempty"`
}

// statusMatch builds an anchored case-insensitive match for a status.
func statusMatch(status string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(status) + "$", Options: "i"}
}

// ShelfMembership returns the user's read and to-read book ids.
func (db *DB) ShelfMembership(ctx context.Context, userID string) (recommend.Shelves, error) {
	shelves := recommend.Shelves{
		Read:   make(map[primitive.ObjectID]struct{}),
		ToRead: make(map[primitive.ObjectID]struct{}),
	}

	filter := bson.M{"status": bson.M{"$in": bson.A{statusMatch(StatusRead), statusMatch(StatusToRead)}}}
	entries, err := db.findShelf(ctx, "shelf_membership", userID, filter)
	if err != nil {
		return shelves, err
	}

	for _, e := range entries {
		switch {
		case strings.EqualFold(e.Status, StatusRead):
			shelves.Read[e.BookID] = struct{}{}
		case strings.EqualFold(e.Status, StatusToRead):
			shelves.ToRead[e.BookID] = struct{}{}
		}
	}
	return shelves, nil
}

// RatingEvents returns the read shelf in insertion order with parsed ratings.
func (db *DB) RatingEvents(ctx context.Context, userID string) ([]recommend.RatingEvent, error) {
	entries, err := db.findShelf(ctx, "rating_events", userID, bson.M{"status": statusMatch(StatusRead)})
	if err != nil {
		return nil, err
	}

	events := make([]recommend.RatingEvent, 0, len(entries))
	for _, e := range entries {
		events = append(events, recommend.RatingEvent{
			BookID: e.BookID,
			Rating: recommend.ParseRating(e.Rating),
			Raw:    e.Rating,
		})
	}
	return events, nil
}

// WishlistItems returns the to-read shelf in insertion order.
func (db *DB) WishlistItems(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	entries, err := db.findShelf(ctx, "wishlist_items", userID, bson.M{"status": statusMatch(StatusToRead)})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BookID)
	}
	return ids, nil
}

// PutShelfEntry records a book on a user's shelf, replacing any previous
// status and rating for the pair.
func (db *DB) PutShelfEntry(ctx context.Context, userID string, bookID primitive.ObjectID, status, rating string) error {
	oid, err := ParseObjectID(userID)
	if err != nil {
		return err
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	set := bson.M{"status": status}
	if rating != "" {
		set["rating"] = rating
	}

	start := time.Now()
	_, err = db.shelves().UpdateOne(ctx,
		bson.M{"user_id": oid, "book_id": bookID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	observe("put_shelf_entry", CollectionShelves, start, err)
	if err != nil {
		return fmt.Errorf("failed to shelve %s for %s: %w", bookID.Hex(), userID, err)
	}
	return nil
}

func (db *DB) findShelf(ctx context.Context, op, userID string, filter bson.M) ([]shelfEntry, error) {
	oid, err := ParseObjectID(userID)
	if err != nil {
		return nil, err
	}
	filter["user_id"] = oid

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	start := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := db.shelves().Find(ctx, filter, opts)
	if err != nil {
		observe(op, CollectionShelves, start, err)
		return nil, fmt.Errorf("failed to query shelf for %s: %w", userID, err)
	}

	// All closes the cursor.
	var entries []shelfEntry
	err = cur.All(ctx, &entries)
	observe(op, CollectionShelves, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to read shelf for %s: %w", userID, err)
	}
	return entries, nil
}
