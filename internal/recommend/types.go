// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/catalog"
)

// Rating is a reader's verdict on a finished book.
type Rating int

const (
	// RatingUnknown is any value outside pos/neg/mid.
	RatingUnknown Rating = iota
	// RatingNegative is a "neg" rating.
	RatingNegative
	// RatingNeutral is a "mid" rating, also used when no rating was given.
	RatingNeutral
	// RatingPositive is a "pos" rating.
	RatingPositive
)

// ParseRating converts a stored rating string. Matching is case-insensitive
// and an empty value means "mid".
func ParseRating(s string) Rating {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pos":
		return RatingPositive
	case "neg":
		return RatingNegative
	case "mid", "":
		return RatingNeutral
	default:
		return RatingUnknown
	}
}

// String returns the stored form of the rating.
func (r Rating) String() string {
	switch r {
	case RatingPositive:
		return "pos"
	case RatingNegative:
		return "neg"
	case RatingNeutral:
		return "mid"
	default:
		return "unknown"
	}
}

// ApplyStatus classifies the outcome of a preference update.
type ApplyStatus int

const (
	// StatusApplied means the profile was mutated and persisted.
	StatusApplied ApplyStatus = iota
	// StatusSkippedUnknownRating means the rating value was not recognized.
	StatusSkippedUnknownRating
	// StatusSkippedBookNotFound means the referenced book does not exist.
	StatusSkippedBookNotFound
	// StatusSkippedEmptySignal means the signal carried nothing to apply.
	StatusSkippedEmptySignal
	// StatusSkippedUserNotFound means the store has no such user, so nothing
	// was persisted or cached.
	StatusSkippedUserNotFound
)

// String returns a human-readable name for the status.
func (s ApplyStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusSkippedUnknownRating:
		return "skipped_unknown_rating"
	case StatusSkippedBookNotFound:
		return "skipped_book_not_found"
	case StatusSkippedEmptySignal:
		return "skipped_empty_signal"
	case StatusSkippedUserNotFound:
		return "skipped_user_not_found"
	default:
		return "unknown"
	}
}

// Applied reports whether the update changed persisted state.
func (s ApplyStatus) Applied() bool {
	return s == StatusApplied
}

// ApplyResult describes what a preference update did.
type ApplyResult struct {
	Status ApplyStatus `json:"status"`

	// GenresTouched is the number of genre weights incremented.
	GenresTouched int `json:"genres_touched"`

	// EmbeddingUpdated is true when the preference embedding was blended.
	EmbeddingUpdated bool `json:"embedding_updated"`
}

// Strategy is the scoring path chosen for a request.
type Strategy int

const (
	// StrategyEmpty means there was nothing to score.
	StrategyEmpty Strategy = iota
	// StrategyGenreOnly scores by genre weight overlap alone.
	StrategyGenreOnly
	// StrategyBlended scores by cosine similarity plus weighted genre sum.
	StrategyBlended
)

// String returns the metric label for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyGenreOnly:
		return "genre_only"
	case StrategyBlended:
		return "blended"
	default:
		return "empty"
	}
}

// Profile is a user's accumulated taste.
type Profile struct {
	UserID string `json:"user_id"`

	// GenreWeights maps genre tags, case-sensitive as stored, to weights.
	// A missing entry weighs 0.
	GenreWeights map[string]float64 `json:"genre_weights"`

	// Embedding is the preference vector. All zeros means no signal yet.
	Embedding []float64 `json:"embedding"`
}

// NewProfile returns the zero profile for a user.
func NewProfile(userID string, dim int) Profile {
	return Profile{
		UserID:       userID,
		GenreWeights: make(map[string]float64),
		Embedding:    make([]float64, dim),
	}
}

// Clone returns a deep copy of the profile.
//
//nolint:gocritic // hugeParam: value receiver keeps profiles immutable at call sites
func (p Profile) Clone() Profile {
	weights := make(map[string]float64, len(p.GenreWeights))
	for k, v := range p.GenreWeights {
		weights[k] = v
	}
	emb := make([]float64, len(p.Embedding))
	copy(emb, p.Embedding)
	return Profile{UserID: p.UserID, GenreWeights: weights, Embedding: emb}
}

// ScoredCandidate is a catalog book with its score for one request.
type ScoredCandidate struct {
	Book  catalog.Book
	Score float64
}

// Shelves is the set of books a user has shelved.
type Shelves struct {
	Read   map[primitive.ObjectID]struct{}
	ToRead map[primitive.ObjectID]struct{}
}

// Contains reports whether the book is on the read or to-read shelf.
func (s Shelves) Contains(id primitive.ObjectID) bool {
	if _, ok := s.Read[id]; ok {
		return true
	}
	_, ok := s.ToRead[id]
	return ok
}

// RatingEvent is one entry of a user's reading history.
type RatingEvent struct {
	BookID primitive.ObjectID
	Rating Rating

	// Raw is the stored rating string, kept for logging unknown values.
	Raw string
}

// Request is a recommendation request.
type Request struct {
	UserID string `json:"user_id"`

	// Count is the number of books wanted. Zero uses the configured default.
	Count int `json:"count"`

	// RequestID correlates log lines. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the result of a recommendation request. An empty Books list
// means there is not enough signal yet, not an error.
type Response struct {
	Books    []catalog.Book   `json:"books"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`

	// Strategy is the scoring path, as returned by Strategy.String.
	Strategy string `json:"strategy"`

	// Candidates is the number of unshelved books scored.
	Candidates int `json:"candidates"`

	LatencyMS   int64     `json:"latency_ms"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Metrics holds engine counters.
type Metrics struct {
	RequestCount  int64 `json:"request_count"`
	EmptyCount    int64 `json:"empty_count"`
	ErrorCount    int64 `json:"error_count"`
	UpdateCount   int64 `json:"update_count"`
	BackfillFails int64 `json:"backfill_fails"`
}

// ShelfReader supplies shelf membership and reading history.
type ShelfReader interface {
	// ShelfMembership returns the ids on the user's read and to-read shelves.
	ShelfMembership(ctx context.Context, userID string) (Shelves, error)

	// RatingEvents returns the rated reading history in shelf order.
	RatingEvents(ctx context.Context, userID string) ([]RatingEvent, error)

	// WishlistItems returns the unrated to-read book ids.
	WishlistItems(ctx context.Context, userID string) ([]primitive.ObjectID, error)
}

// PreferenceStore persists profiles.
type PreferenceStore interface {
	// LoadPreference returns the stored profile. found is false for users
	// that have never been written.
	LoadPreference(ctx context.Context, userID string) (profile Profile, found bool, err error)

	// Saves return an error wrapping ErrUserNotFound when the user does
	// not exist.
	SaveGenreWeights(ctx context.Context, userID string, weights map[string]float64) error
	SaveEmbedding(ctx context.Context, userID string, embedding []float64) error
}

// ProfileCache fronts the preference store. Implementations key entries as
// user_embedding:<id> and genre_weights:<id>.
type ProfileCache interface {
	GetEmbedding(ctx context.Context, userID string) ([]float64, bool, error)
	SetEmbedding(ctx context.Context, userID string, embedding []float64) error
	GetGenreWeights(ctx context.Context, userID string) (map[string]float64, bool, error)
	SetGenreWeights(ctx context.Context, userID string, weights map[string]float64) error
}

// BookFinder looks up a single book in the store.
type BookFinder interface {
	FindBook(ctx context.Context, id primitive.ObjectID) (catalog.Book, bool, error)
}

// CatalogSource supplies the current catalog snapshot.
type CatalogSource interface {
	Books() []catalog.Book
}

// Backfiller fills missing embeddings on a list of books.
type Backfiller interface {
	Backfill(ctx context.Context, books []catalog.Book) ([]catalog.Book, error)
}
