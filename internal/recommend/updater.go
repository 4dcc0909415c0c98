// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/catalog"
	"github.com/tomtom215/shelfwise/internal/metrics"
)

// Signal names used in logs and metrics.
const (
	SignalRating     = "rating"
	SignalWishlist   = "wishlist"
	SignalOnboarding = "onboarding"
	SignalRebuild    = "rebuild"
)

// RebuildResult summarizes a profile rebuild.
type RebuildResult struct {
	Ratings  int `json:"ratings"`
	Wishlist int `json:"wishlist"`
	Skipped  int `json:"skipped"`
}

// Updater folds reading signals into preference profiles. Each call
// persists its mutation before returning. There is no cross-call
// transaction: a failure between the genre weight write and the embedding
// write leaves a valid, partly updated profile.
type Updater struct {
	repo    *ProfileRepository
	books   BookFinder
	shelves ShelfReader
	signals SignalConfig
	dim     int
	logger  zerolog.Logger
}

// NewUpdater creates an Updater.
func NewUpdater(repo *ProfileRepository, books BookFinder, shelves ShelfReader, signals SignalConfig, dim int, logger zerolog.Logger) *Updater {
	return &Updater{
		repo:    repo,
		books:   books,
		shelves: shelves,
		signals: signals,
		dim:     dim,
		logger:  logger,
	}
}

// ratingDelta returns the per-tag increment for a rating.
func (u *Updater) ratingDelta(r Rating) float64 {
	switch r {
	case RatingPositive:
		return u.signals.RatingPositive
	case RatingNegative:
		return u.signals.RatingNegative
	default:
		return u.signals.RatingNeutral
	}
}

// foldBook adds delta to every tag of the book and, when blend is set and
// the book has an embedding, averages it into the profile embedding.
func foldBook(p *Profile, b *catalog.Book, delta float64, blend bool) (genres int, blended bool) {
	for _, tag := range b.GenreTags {
		p.GenreWeights[tag] += delta
		genres++
	}
	if blend && b.HasEmbedding() {
		p.Embedding = BlendEmbedding(p.Embedding, b.Embedding)
		blended = true
	}
	return genres, blended
}

// ApplyRating folds a rating of a finished book into the profile.
func (u *Updater) ApplyRating(ctx context.Context, userID string, bookID primitive.ObjectID, rating string) (ApplyResult, error) {
	res, err := u.applyBookSignal(ctx, SignalRating, userID, bookID, ParseRating(rating), rating)
	u.record(SignalRating, res, err)
	return res, err
}

// ApplyWishlist folds a to-read shelving into the profile. It weighs less
// than a positive rating but always blends the embedding.
func (u *Updater) ApplyWishlist(ctx context.Context, userID string, bookID primitive.ObjectID) (ApplyResult, error) {
	res, err := u.applyBookSignal(ctx, SignalWishlist, userID, bookID, RatingUnknown, "")
	u.record(SignalWishlist, res, err)
	return res, err
}

func (u *Updater) applyBookSignal(ctx context.Context, signal, userID string, bookID primitive.ObjectID, rating Rating, raw string) (ApplyResult, error) {
	log := u.logger.With().Str("user_id", userID).Str("book_id", bookID.Hex()).Str("signal", signal).Logger()

	if signal == SignalRating && rating == RatingUnknown {
		log.Warn().Str("rating", raw).Msg("Ignoring unrecognized rating")
		return ApplyResult{Status: StatusSkippedUnknownRating}, nil
	}

	b, found, err := u.books.FindBook(ctx, bookID)
	if err != nil {
		return ApplyResult{}, wrapKind(KindStoreUnavailable, err, userID, "find book %s", bookID.Hex())
	}
	if !found {
		log.Warn().Msg("Ignoring signal for unknown book")
		return ApplyResult{Status: StatusSkippedBookNotFound}, nil
	}

	profile, err := u.repo.Load(ctx, userID)
	if err != nil {
		return ApplyResult{}, err
	}

	delta, blend := u.signals.Wishlist, true
	if signal == SignalRating {
		delta, blend = u.ratingDelta(rating), rating == RatingPositive
	}

	genres, blended := foldBook(&profile, &b, delta, blend)

	if err := u.repo.SaveGenreWeights(ctx, userID, profile.GenreWeights); err != nil {
		return skipMissingUser(log, err)
	}
	if blended {
		if err := u.repo.SaveEmbedding(ctx, userID, profile.Embedding); err != nil {
			return skipMissingUser(log, err)
		}
	}

	log.Debug().Int("genres", genres).Bool("embedding_updated", blended).Msg("Applied preference signal")
	return ApplyResult{Status: StatusApplied, GenresTouched: genres, EmbeddingUpdated: blended}, nil
}

// SplitGenreLabels splits compound labels such as "Mystery/Thriller" into
// trimmed tokens, dropping empties.
func SplitGenreLabels(labels []string) []string {
	var out []string
	for _, label := range labels {
		for _, token := range strings.Split(label, "/") {
			if token = strings.TrimSpace(token); token != "" {
				out = append(out, token)
			}
		}
	}
	return out
}

// ApplyOnboarding adds the onboarding weight to every chosen genre.
func (u *Updater) ApplyOnboarding(ctx context.Context, userID string, labels []string) (ApplyResult, error) {
	res, err := u.applyOnboarding(ctx, userID, labels)
	u.record(SignalOnboarding, res, err)
	return res, err
}

func (u *Updater) applyOnboarding(ctx context.Context, userID string, labels []string) (ApplyResult, error) {
	genres := SplitGenreLabels(labels)
	if len(genres) == 0 {
		u.logger.Warn().Str("user_id", userID).Msg("Ignoring onboarding signal without genres")
		return ApplyResult{Status: StatusSkippedEmptySignal}, nil
	}

	profile, err := u.repo.Load(ctx, userID)
	if err != nil {
		return ApplyResult{}, err
	}
	for _, g := range genres {
		profile.GenreWeights[g] += u.signals.Onboarding
	}

	if err := u.repo.SaveGenreWeights(ctx, userID, profile.GenreWeights); err != nil {
		log := u.logger.With().Str("user_id", userID).Str("signal", SignalOnboarding).Logger()
		return skipMissingUser(log, err)
	}
	return ApplyResult{Status: StatusApplied, GenresTouched: len(genres)}, nil
}

// skipMissingUser reports a write against a user the store does not know
// as a skip. Any other error is returned unchanged.
func skipMissingUser(log zerolog.Logger, err error) (ApplyResult, error) {
	if !errors.Is(err, ErrUserNotFound) {
		return ApplyResult{}, err
	}
	log.Warn().Msg("Ignoring signal for unknown user")
	return ApplyResult{Status: StatusSkippedUserNotFound}, nil
}

// Rebuild resets the profile and replays the user's reading history and
// wishlist into it. The reset is persisted before replay; the replayed
// profile is persisted once at the end. A user the store does not know fails
// with KindInvalidArgument wrapping ErrUserNotFound.
func (u *Updater) Rebuild(ctx context.Context, userID string) (RebuildResult, error) {
	res, err := u.rebuild(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		u.record(SignalRebuild, ApplyResult{Status: StatusSkippedUserNotFound}, nil)
		return res, err
	}
	u.record(SignalRebuild, ApplyResult{Status: StatusApplied}, err)
	return res, err
}

func (u *Updater) rebuild(ctx context.Context, userID string) (RebuildResult, error) {
	var res RebuildResult
	log := u.logger.With().Str("user_id", userID).Str("signal", SignalRebuild).Logger()

	profile := NewProfile(userID, u.dim)
	if err := u.repo.SaveGenreWeights(ctx, userID, profile.GenreWeights); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return res, wrapKind(KindInvalidArgument, ErrUserNotFound, userID, "rebuild profile")
		}
		return res, err
	}
	if err := u.repo.SaveEmbedding(ctx, userID, profile.Embedding); err != nil {
		return res, err
	}

	events, err := u.shelves.RatingEvents(ctx, userID)
	if err != nil {
		return res, wrapKind(KindStoreUnavailable, err, userID, "load reading history")
	}
	wishlist, err := u.shelves.WishlistItems(ctx, userID)
	if err != nil {
		return res, wrapKind(KindStoreUnavailable, err, userID, "load wishlist")
	}

	for _, ev := range events {
		if ev.Rating == RatingUnknown {
			log.Warn().Str("book_id", ev.BookID.Hex()).Str("rating", ev.Raw).Msg("Skipping unrecognized rating in history")
			res.Skipped++
			continue
		}
		b, ok, err := u.findForReplay(ctx, userID, ev.BookID)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Skipped++
			continue
		}
		foldBook(&profile, &b, u.ratingDelta(ev.Rating), ev.Rating == RatingPositive)
		res.Ratings++
	}

	for _, id := range wishlist {
		b, ok, err := u.findForReplay(ctx, userID, id)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Skipped++
			continue
		}
		foldBook(&profile, &b, u.signals.Wishlist, true)
		res.Wishlist++
	}

	if err := u.repo.SaveGenreWeights(ctx, userID, profile.GenreWeights); err != nil {
		return res, err
	}
	if err := u.repo.SaveEmbedding(ctx, userID, profile.Embedding); err != nil {
		return res, err
	}

	log.Info().
		Int("ratings", res.Ratings).
		Int("wishlist", res.Wishlist).
		Int("skipped", res.Skipped).
		Msg("Rebuilt preference profile")
	return res, nil
}

func (u *Updater) findForReplay(ctx context.Context, userID string, id primitive.ObjectID) (catalog.Book, bool, error) {
	b, ok, err := u.books.FindBook(ctx, id)
	if err != nil {
		return catalog.Book{}, false, wrapKind(KindStoreUnavailable, err, userID, "find book %s", id.Hex())
	}
	if !ok {
		u.logger.Warn().Str("user_id", userID).Str("book_id", id.Hex()).Msg("Skipping shelved book missing from catalog")
	}
	return b, ok, nil
}

func (u *Updater) record(signal string, res ApplyResult, err error) {
	status := res.Status.String()
	if err != nil {
		status = "failed"
	}
	metrics.RecordPreferenceUpdate(signal, status)
}
