// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package main is the entry point for the Shelfwise recommendation server.

The server keeps the book catalog snapshot current, applies preference
signals from NATS JetStream and exposes an ops HTTP surface for probes and
Prometheus.

# Application Architecture

Services run under a Suture v4 tree:

	RootSupervisor ("shelfwise")
	├── catalog-layer
	│   └── catalog-refresh (initial load, embedding backfill, 24h refresh)
	├── signal-layer
	│   └── signal-consumer (optional, -tags nats)
	└── api-layer
	    └── http-server (/healthz, /readyz, /status, /metrics)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog, with a slog bridge for suture and watermill
 3. Stores: MongoDB client and indexes, optional badger preference store
 4. Profile cache: Redis or in-process ristretto
 5. Encoder: OpenAI-compatible or ONNX, behind a circuit breaker
 6. Catalog snapshot, backfiller and recommendation engine
 7. Supervisor tree

# Build Tags

	go build ./cmd/server                  # ops server and catalog refresh only
	go build -tags nats ./cmd/server       # plus the signal consumer
	go build -tags ORT ./cmd/server        # plus the ONNX encoder

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
server.shutdown_timeout, the signal consumer closes its router and the stores
are disconnected last.

# Example Usage

	export MONGO_URI=mongodb://mongo:27017
	export REDIS_ADDR=redis:6379
	export OPENAI_API_KEY=sk-...
	export NATS_ENABLED=true
	./shelfwise
*/
package main
