// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package eventprocessor ingests user preference signals from NATS JetStream.

Producers publish JSON signals on <prefix>.<kind>, where kind is rating,
wishlist or onboarding:

	{"kind":"rating","user_id":"650f...","book_id":"650a...","rating":"pos"}
	{"kind":"wishlist","user_id":"650f...","book_id":"650a..."}
	{"kind":"onboarding","user_id":"650f...","genres":["fantasy","history"]}

SignalConsumer runs a Watermill router with Recoverer and Retry middleware
over a durable, queue-grouped JetStream subscription, and hands each
payload to a Dispatcher. The Dispatcher applies it through a SignalApplier
(the recommendation engine):

  - malformed payloads and invalid arguments are acknowledged and dropped
  - skipped updates (unknown rating, missing book) are acknowledged
  - store and cache write failures are returned and redelivered

The transport requires the nats build tag. Without it NewSignalConsumer,
NewPublisher and NewEmbeddedServer return ErrNATSNotEnabled; ParseSignal and
Dispatcher are always available.
*/
package eventprocessor
