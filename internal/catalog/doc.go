// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package catalog holds the in-memory book catalog used by the recommender.
//
// # Snapshot
//
// Snapshot is a point-in-time list of books shared read-only by every scoring
// call. Readers load the current list through an atomic pointer and never copy
// the payload. Refresh builds the replacement list from the document store
// without holding any lock, writes the JSON disk cache, and then swaps the
// pointer. A reader therefore always sees a complete list, either the one
// before or the one after a refresh.
//
// The snapshot is refreshed on a fixed interval by the supervisor. Book edits
// in the store are not observed until the next refresh.
//
// # Backfill
//
// Backfiller computes embeddings for books that have none. Summaries are
// encoded in batches, persisted through the store, and published back into the
// snapshot. Concurrent backfills of the same book share a single encoder call.
package catalog
