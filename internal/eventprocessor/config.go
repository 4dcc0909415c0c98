// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/shelfwise/internal/config"
)

// Config holds signal ingestion settings.
type Config struct {
	// URL is the NATS server URL. Ignored when EmbeddedServer is true.
	URL string

	// EmbeddedServer starts an in-process NATS server with JetStream.
	EmbeddedServer bool

	// StoreDir is the JetStream storage directory for the embedded server.
	StoreDir string

	// Stream is the JetStream stream holding signals.
	Stream string

	// SubjectPrefix is prepended to the signal kind: <prefix>.rating.
	SubjectPrefix string

	DurableName string
	QueueGroup  string

	// SubscribersCount is the number of concurrent message processors.
	// Signals for the same user may be applied out of order when > 1;
	// genre weight increments commute, embedding blends do not.
	SubscribersCount int

	AckWait      time.Duration
	MaxDeliver   int
	CloseTimeout time.Duration

	// Retention is the stream MaxAge.
	Retention time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		URL:                  "nats://127.0.0.1:4222",
		EmbeddedServer:       true,
		StoreDir:             "/data/shelfwise/jetstream",
		Stream:               "SHELFWISE_SIGNALS",
		SubjectPrefix:        "shelfwise.signals",
		DurableName:          "shelfwise-signals",
		QueueGroup:           "shelfwise",
		SubscribersCount:     2,
		AckWait:              30 * time.Second,
		MaxDeliver:           5,
		CloseTimeout:         30 * time.Second,
		Retention:            7 * 24 * time.Hour,
		RetryMaxRetries:      3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
	}
}

// ConfigFromSettings maps the signals section of the application config.
func ConfigFromSettings(s *config.SignalsConfig) Config {
	cfg := DefaultConfig()
	cfg.URL = s.URL
	cfg.EmbeddedServer = s.EmbeddedServer
	cfg.StoreDir = s.StoreDir
	cfg.Stream = s.Stream
	cfg.SubjectPrefix = s.SubjectPrefix
	cfg.DurableName = s.DurableName
	cfg.QueueGroup = s.QueueGroup
	cfg.SubscribersCount = s.SubscribersCount
	cfg.AckWait = s.AckWait
	cfg.CloseTimeout = s.CloseTimeout
	cfg.Retention = time.Duration(s.RetentionDays) * 24 * time.Hour
	return cfg
}

// Validate checks the fields the transport cannot default.
func (c *Config) Validate() error {
	if c.Stream == "" {
		return fmt.Errorf("%w: stream name required", ErrInvalidConfig)
	}
	if c.SubjectPrefix == "" {
		return fmt.Errorf("%w: subject prefix required", ErrInvalidConfig)
	}
	if !c.EmbeddedServer && c.URL == "" {
		return fmt.Errorf("%w: url required without embedded server", ErrInvalidConfig)
	}
	if c.EmbeddedServer && c.StoreDir == "" {
		return fmt.Errorf("%w: store dir required for embedded server", ErrInvalidConfig)
	}
	if c.SubscribersCount < 1 {
		return fmt.Errorf("%w: subscribers count must be at least 1", ErrInvalidConfig)
	}
	if c.AckWait <= 0 {
		return fmt.Errorf("%w: ack wait must be positive", ErrInvalidConfig)
	}
	return nil
}
