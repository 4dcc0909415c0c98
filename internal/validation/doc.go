// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for the ids and rating values carried by preference signals.
//
// Custom tags:
//   - objectid: 24 character hex MongoDB ObjectID
//   - rating: pos, neg or mid, case-insensitive; empty reads as mid
//   - notblank: non-empty after trimming whitespace
//
// Example usage:
//
//	type RatingSignal struct {
//	    UserID string `validate:"required,objectid"`
//	    BookID string `validate:"required,objectid"`
//	    Rating string `validate:"rating"`
//	}
//
//	if err := validation.ValidateStruct(&sig); err != nil {
//	    log.Warn().Strs("fields", err.Fields()).Msg("Dropping malformed signal")
//	}
package validation
