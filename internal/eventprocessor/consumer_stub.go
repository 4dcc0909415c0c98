// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
)

// SignalConsumer is a stub when NATS dependencies are not available.
type SignalConsumer struct{}

// NewSignalConsumer returns ErrNATSNotEnabled.
func NewSignalConsumer(cfg Config, dispatcher *Dispatcher, logger watermill.LoggerAdapter) (*SignalConsumer, error) {
	return nil, ErrNATSNotEnabled
}

// Serve returns ErrNATSNotEnabled.
func (c *SignalConsumer) Serve(ctx context.Context) error {
	return ErrNATSNotEnabled
}

// IsRunning always returns false for the stub.
func (c *SignalConsumer) IsRunning() bool {
	return false
}

// String implements fmt.Stringer for suture logging.
func (c *SignalConsumer) String() string {
	return "signal-consumer"
}
