// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/shelfwise/internal/logging"
)

const signalHandlerName = "preference-signals"

// SignalConsumer drains the signal stream into a Dispatcher. It implements
// suture.Service: Serve blocks until ctx is canceled and releases the
// embedded server, stream connection and router on return.
type SignalConsumer struct {
	cfg        Config
	dispatcher *Dispatcher
	logger     watermill.LoggerAdapter
	running    atomic.Bool
}

// NewSignalConsumer validates cfg and prepares a consumer.
func NewSignalConsumer(cfg Config, dispatcher *Dispatcher, logger watermill.LoggerAdapter) (*SignalConsumer, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("%w: dispatcher required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}
	return &SignalConsumer{cfg: cfg, dispatcher: dispatcher, logger: logger}, nil
}

// Serve runs the consumer until ctx is canceled.
func (c *SignalConsumer) Serve(ctx context.Context) error {
	url := c.cfg.URL
	if c.cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(c.cfg.StoreDir, natsgo.DefaultPort)
		if err != nil {
			return fmt.Errorf("start embedded NATS: %w", err)
		}
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logging.Warn().Err(err).Msg("Embedded NATS shutdown failed")
			}
		}()
		url = srv.ClientURL()
	}

	if err := c.provisionStream(ctx, url); err != nil {
		return err
	}

	sub, err := newSubscriber(url, &c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Signal subscriber close failed")
		}
	}()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: c.cfg.CloseTimeout}, c.logger)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      c.cfg.RetryMaxRetries,
		InitialInterval: c.cfg.RetryInitialInterval,
		MaxInterval:     c.cfg.RetryMaxInterval,
		Multiplier:      2.0,
		Logger:          c.logger,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler(signalHandlerName, WildcardSubject(c.cfg.SubjectPrefix), sub, c.handle)

	logging.Info().
		Str("url", url).
		Str("stream", c.cfg.Stream).
		Str("subject", WildcardSubject(c.cfg.SubjectPrefix)).
		Msg("Signal consumer started")

	c.running.Store(true)
	defer c.running.Store(false)

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("signal router: %w", err)
	}
	return ctx.Err()
}

// handle adapts a watermill message to the dispatcher. Returning an error
// nacks the message after the retry middleware gives up.
func (c *SignalConsumer) handle(msg *message.Message) error {
	ctx := logging.ContextWithRequestID(msg.Context(), msg.UUID)
	return c.dispatcher.Handle(ctx, msg.Payload)
}

func (c *SignalConsumer) provisionStream(ctx context.Context, url string) error {
	nc, err := natsgo.Connect(url)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	if _, err := EnsureStream(ctx, js, &c.cfg); err != nil {
		return err
	}
	return nil
}

// IsRunning reports whether the router loop is active.
func (c *SignalConsumer) IsRunning() bool {
	return c.running.Load()
}

// String implements fmt.Stringer for suture logging.
func (c *SignalConsumer) String() string {
	return "signal-consumer"
}
