// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package database provides the MongoDB data access layer for Shelfwise.

DB reads and writes three collections owned by the wider reading platform:

  - Books: the catalog. LoadCatalog feeds the catalog snapshot, FindBook
    resolves single books for preference updates, and PersistEmbedding
    stores backfilled summary embeddings.
  - Users: profile persistence through LoadPreference, SaveGenreWeights and
    SaveEmbedding. Updates use $set on existing users only.
  - UserBookshelf: shelf membership, reading history (status "Read") and
    wishlist (status "To Read"). Statuses match case-insensitively and an
    unset rating is read as "mid".

BadgerPreferenceStore is an embedded alternative for the Users profile
fields, selected with preferences.backend=badger.

Every round-trip is recorded with metrics.RecordStoreQuery. A missing
document is not an error: lookups report found=false instead.
*/
package database
