// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package config provides centralized configuration management for Shelfwise.

Configuration is loaded by LoadWithKoanf in three layers, each overriding the
previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/shelfwise/config.yaml, /etc/shelfwise/config.yml
 3. Environment variables listed in envMappings

Unlisted environment variables are ignored.

# Sections

  - server: ops HTTP listener (HTTP_HOST, HTTP_PORT, SHUTDOWN_TIMEOUT)
  - logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - mongo: MONGO_URI, MONGO_DATABASE, timeouts
  - redis, cache: profile cache backend (redis|memory) and TTL (default 1h)
  - catalog: cache file, refresh interval (24h), max items (10000), backfill pacing
  - encoder: provider (openai|onnx|none), dimension (384), circuit breaker
  - recommend: scoring, selection and signal weights
  - signals: NATS JetStream ingestion, only used in builds with the nats tag
  - preferences: profile persistence backend (mongo|badger)

# Example

	CONFIG_PATH=/etc/shelfwise/config.yaml \
	MONGO_URI=mongodb://mongo:27017 \
	OPENAI_API_KEY=sk-... \
	./shelfwise

Validate runs after loading and returns the first failing section.
*/
package config
