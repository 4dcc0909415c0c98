// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package eventprocessor

import "errors"

// ErrNATSNotEnabled is returned when NATS features are used without the nats build tag.
var ErrNATSNotEnabled = errors.New("NATS signal processing not enabled (build with -tags nats)")

// ErrMalformedSignal is returned for payloads that cannot be decoded or fail validation.
// Malformed signals are acknowledged and dropped, never redelivered.
var ErrMalformedSignal = errors.New("malformed signal")

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")
