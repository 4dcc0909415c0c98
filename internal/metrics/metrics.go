// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the recommendation service:
// - Document store operations (MongoDB)
// - Recommendation and preference update throughput
// - Catalog snapshot freshness and embedding backfill
// - Profile cache efficiency
// - Encoder latency and circuit breaker state
// - Signal consumption from NATS

var (
	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of document store errors",
		},
		[]string{"operation", "collection"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by scoring strategy",
		},
		[]string{"strategy"}, // "blended", "genre_only", "empty"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RecommendResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_result_size",
			Help:    "Number of books returned per recommendation request",
			Buckets: []float64{0, 1, 2, 4, 6, 10, 20, 50},
		},
	)

	PreferenceUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_updates_total",
			Help: "Total number of preference signals processed",
		},
		[]string{"signal", "status"}, // signal: "rating", "wishlist", "onboarding", "rebuild"
	)

	// Catalog Metrics
	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_books",
			Help: "Number of books in the current catalog snapshot",
		},
	)

	CatalogSnapshotTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_timestamp_seconds",
			Help: "Unix time the current catalog snapshot was built",
		},
	)

	CatalogRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of catalog loads in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"source"}, // "disk", "store"
	)

	CatalogRefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_errors_total",
			Help: "Total number of failed catalog loads",
		},
		[]string{"source"},
	)

	BackfillEmbeddings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backfill_embeddings_total",
			Help: "Total number of book embeddings backfilled",
		},
		[]string{"result"}, // "success", "failure"
	)

	BackfillDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backfill_duration_seconds",
			Help:    "Duration of embedding backfill runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Encoder Metrics
	EncoderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "encoder_duration_seconds",
			Help:    "Duration of encoder calls in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	EncoderTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "encoder_texts_total",
			Help: "Total number of texts sent to the encoder",
		},
		[]string{"provider"},
	)

	EncoderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "encoder_errors_total",
			Help: "Total number of failed encoder calls",
		},
		[]string{"provider"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "user_embedding", "genre_weights"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"cache_type", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Signal Consumer Metrics
	SignalMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_messages_total",
			Help: "Total number of preference signal messages consumed",
		},
		[]string{"kind", "result"}, // result: "applied", "skipped", "invalid", "failed"
	)

	SignalProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signal_processing_duration_seconds",
			Help:    "Time to apply one preference signal message",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordStoreQuery records a document store operation.
func RecordStoreQuery(operation, collection string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation, collection).Inc()
	}
}

// RecordRecommendation records a completed recommendation request.
func RecordRecommendation(strategy string, duration time.Duration, results int) {
	RecommendRequests.WithLabelValues(strategy).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	RecommendResultSize.Observe(float64(results))
}

// RecordPreferenceUpdate records the outcome of one preference signal.
func RecordPreferenceUpdate(signal, status string) {
	PreferenceUpdates.WithLabelValues(signal, strings.ToLower(status)).Inc()
}

// RecordCatalogRefresh records a catalog load from disk or store.
func RecordCatalogRefresh(source string, duration time.Duration, books int, err error) {
	CatalogRefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		CatalogRefreshErrors.WithLabelValues(source).Inc()
	}
}

// RecordBackfill records one backfill run.
func RecordBackfill(updated, failed int, duration time.Duration) {
	BackfillDuration.Observe(duration.Seconds())
	if updated > 0 {
		BackfillEmbeddings.WithLabelValues("success").Add(float64(updated))
	}
	if failed > 0 {
		BackfillEmbeddings.WithLabelValues("failure").Add(float64(failed))
	}
}

// RecordEncode records an encoder call.
func RecordEncode(provider string, texts int, duration time.Duration, err error) {
	EncoderDuration.WithLabelValues(provider).Observe(duration.Seconds())
	EncoderTexts.WithLabelValues(provider).Add(float64(texts))
	if err != nil {
		EncoderErrors.WithLabelValues(provider).Inc()
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCacheError records a cache backend failure.
func RecordCacheError(cacheType, operation string) {
	CacheErrors.WithLabelValues(cacheType, operation).Inc()
}

// RecordSignal records a consumed signal message.
func RecordSignal(kind, result string, duration time.Duration) {
	SignalMessages.WithLabelValues(kind, result).Inc()
	SignalProcessingDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
