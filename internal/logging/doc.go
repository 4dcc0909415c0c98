// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package logging provides zerolog-based structured logging for Shelfwise.
//
// A global logger is configured once from main with Init and used through
// the level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Int("books", n).Msg("Catalog refreshed")
//	logging.Error().Err(err).Str("user_id", id).Msg("Preference update failed")
//
// Components that take an injected zerolog.Logger (the recommendation engine,
// the signal dispatcher) receive Logger() or WithComponent(name).
//
// Request IDs travel in the context. Ctx(ctx) returns a logger with the
// request_id field attached:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx).Debug().Msg("Scoring candidates")
//
// NewSlogLogger bridges libraries that log through log/slog (suture via
// sutureslog, watermill via watermill.NewSlogLogger) into the same output.
//
// Always terminate chains with Msg or Send; an unterminated event is dropped.
package logging
