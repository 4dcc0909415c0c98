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

// Publisher is a stub when NATS dependencies are not available.
type Publisher struct{}

// NewPublisher returns ErrNATSNotEnabled.
func NewPublisher(url, subjectPrefix string, logger watermill.LoggerAdapter) (*Publisher, error) {
	return nil, ErrNATSNotEnabled
}

// Publish returns ErrNATSNotEnabled.
func (p *Publisher) Publish(ctx context.Context, sig *Signal) error {
	return ErrNATSNotEnabled
}

// Close is a no-op stub.
func (p *Publisher) Close() error {
	return nil
}
