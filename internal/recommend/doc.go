// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package recommend implements per-user preference profiles and
// content-based book recommendations.
//
// # Architecture
//
// A request flows through four stages:
//
//   - ProfileRepository: cache-aside read of genre weights and the
//     preference embedding, with the store as the source of truth
//   - Scorer: ranks unshelved catalog books, either on genre weights alone
//     (cold embedding) or on cosine similarity plus a weighted genre sum
//   - Selector: keeps the top anchors, then samples the rest from a bounded
//     window, rejecting books by a shared author or with a near-identical
//     title
//   - Engine: the facade wiring the stages to the catalog snapshot and the
//     embedding backfiller
//
// Signals (ratings, wishlist additions, onboarding genres) are folded into
// profiles by the Updater. A positive rating or a wishlist addition averages
// the book's embedding into the profile: new = (old + book) / 2.
//
// # Failure Model
//
// Recommendation is best effort. Unknown ratings, unknown books, empty
// catalogs and cold-start users resolve to no-op updates or empty results.
// Store and cache failures on write paths are returned as errors carrying a
// Kind, see KindOf.
//
// # Thread Safety
//
// Engine, Updater, ProfileRepository, Scorer and Selector are safe for
// concurrent use. The selector's RNG is guarded by a mutex.
//
// # Usage Example
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
//	    Store:    users,
//	    Cache:    profileCache,
//	    Shelves:  shelves,
//	    Books:    books,
//	    Catalog:  snapshot,
//	    Backfill: backfiller,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: userID})
package recommend
