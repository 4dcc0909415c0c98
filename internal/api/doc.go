// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package api provides the Shelfwise operations HTTP surface on chi.
//
// Routes:
//
//	GET /healthz   liveness, always 200 while the process serves
//	GET /readyz    200 once the catalog snapshot is loaded and every
//	               dependency check passes, 503 otherwise
//	GET /status    catalog size and age plus engine counters
//	GET /metrics   Prometheus exposition
//
// JSON bodies use the APIResponse envelope. Every request gets an
// X-Request-ID that is also placed in the logging context.
package api
