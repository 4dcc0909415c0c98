// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"errors"

	"github.com/samber/oops"
)

// ErrUserNotFound is returned by a PreferenceStore write when the user has
// no account to attach the preference to.
var ErrUserNotFound = errors.New("user not found")

// Kind classifies a surfaced failure. Benign conditions such as unknown
// ratings or cold-start users are reported through ApplyResult or an empty
// Response, never as errors.
type Kind string

const (
	// KindStoreUnavailable means the preference or shelf store failed.
	KindStoreUnavailable Kind = "store_unavailable"
	// KindCacheUnavailable means the profile cache failed on a write.
	KindCacheUnavailable Kind = "cache_unavailable"
	// KindEncoderUnavailable means the encoder could not be reached.
	KindEncoderUnavailable Kind = "encoder_unavailable"
	// KindCatalogUnavailable means the catalog could not be read.
	KindCatalogUnavailable Kind = "catalog_unavailable"
	// KindInvalidArgument means the caller passed malformed input.
	KindInvalidArgument Kind = "invalid_argument"
	// KindUnknown is returned by KindOf for errors without a kind.
	KindUnknown Kind = "unknown"
)

// String returns the kind code.
func (k Kind) String() string {
	return string(k)
}

func wrapKind(kind Kind, err error, userID, format string, args ...any) error {
	return oops.
		Code(kind).
		With("user_id", userID).
		Wrapf(err, format, args...)
}

func newKind(kind Kind, userID, format string, args ...any) error {
	return oops.
		Code(kind).
		With("user_id", userID).
		Errorf(format, args...)
}

// KindOf extracts the kind from an error produced by this package.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		switch code := oopsErr.Code().(type) {
		case Kind:
			return code
		case string:
			if code != "" {
				return Kind(code)
			}
		}
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
