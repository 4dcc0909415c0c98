// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package eventprocessor

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tomtom215/shelfwise/internal/validation"
)

// SignalKind identifies a preference signal.
type SignalKind string

const (
	// KindRating is a finished book rated pos, neg or mid.
	KindRating SignalKind = "rating"
	// KindWishlist is a book added to the to-read shelf.
	KindWishlist SignalKind = "wishlist"
	// KindOnboarding is the genre list picked at sign-up.
	KindOnboarding SignalKind = "onboarding"
)

// Signal is the JSON body of a message on <prefix>.<kind>.
type Signal struct {
	Kind   SignalKind `json:"kind" validate:"required,oneof=rating wishlist onboarding"`
	UserID string     `json:"user_id" validate:"required,objectid"`
	BookID string     `json:"book_id,omitempty" validate:"omitempty,objectid"`
	Rating string     `json:"rating,omitempty" validate:"omitempty,max=32"`
	Genres []string   `json:"genres,omitempty" validate:"omitempty,max=100,dive,notblank"`
}

// Subject returns the NATS subject a signal kind is published on.
func Subject(prefix string, kind SignalKind) string {
	return strings.TrimSuffix(prefix, ".") + "." + string(kind)
}

// WildcardSubject returns the subject matching every signal kind.
func WildcardSubject(prefix string) string {
	return strings.TrimSuffix(prefix, ".") + ".>"
}

// ParseSignal decodes and validates a payload. All failures wrap ErrMalformedSignal.
func ParseSignal(payload []byte) (*Signal, error) {
	var sig Signal
	if err := json.Unmarshal(payload, &sig); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignal, err)
	}
	sig.Kind = SignalKind(strings.ToLower(strings.TrimSpace(string(sig.Kind))))

	if verr := validation.ValidateStruct(&sig); verr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignal, verr)
	}

	switch sig.Kind {
	case KindRating, KindWishlist:
		if sig.BookID == "" {
			return nil, fmt.Errorf("%w: %s signal requires book_id", ErrMalformedSignal, sig.Kind)
		}
	case KindOnboarding:
		if len(sig.Genres) == 0 {
			return nil, fmt.Errorf("%w: onboarding signal requires genres", ErrMalformedSignal)
		}
	}

	return &sig, nil
}

// BookObjectID returns the parsed book id. ParseSignal has already validated it.
func (s *Signal) BookObjectID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(s.BookID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
