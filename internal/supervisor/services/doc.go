// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package services provides suture.Service wrappers for Shelfwise components.
//
//   - HTTPServerService runs an http.Server and shuts it down on cancel.
//   - CatalogService loads the catalog snapshot, refreshes it on a schedule
//     and backfills missing book embeddings after each refresh.
//
// The signal consumer implements suture.Service itself and is added to the
// tree directly.
package services
