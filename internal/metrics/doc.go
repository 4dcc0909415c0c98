// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed by the ops server at /metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Recommendation:
  - recommend_requests_total{strategy}: requests by scoring strategy
  - recommend_duration_seconds{strategy}: end-to-end latency
  - recommend_result_size: books returned per request
  - preference_updates_total{signal,status}: preference signals applied or skipped

Catalog:
  - catalog_books: books in the current snapshot
  - catalog_snapshot_timestamp_seconds: when the snapshot was built
  - catalog_refresh_duration_seconds{source}, catalog_refresh_errors_total{source}
  - backfill_embeddings_total{result}, backfill_duration_seconds

Dependencies:
  - store_query_duration_seconds{operation,collection}, store_query_errors_total
  - cache_hits_total, cache_misses_total, cache_errors_total
  - encoder_duration_seconds{provider}, encoder_texts_total, encoder_errors_total
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}
  - signal_messages_total{kind,result}, signal_processing_duration_seconds

# Usage

Packages call the Record* helpers instead of touching collectors directly:

	start := time.Now()
	books, err := coll.Find(ctx, filter)
	metrics.RecordStoreQuery("find", "Books", time.Since(start), err)
*/
package metrics
