// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

// CatalogStatus reports snapshot state. *catalog.Snapshot implements it.
type CatalogStatus interface {
	Loaded() bool
	Len() int
	AsOf() time.Time
}

// EngineStats exposes engine counters. *recommend.Engine implements it.
type EngineStats interface {
	GetMetrics() recommend.Metrics
}

// Pinger is a dependency readiness check: the document store or the cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the ops endpoints.
type Handler struct {
	catalog      CatalogStatus
	engine       EngineStats
	checks       map[string]Pinger
	checkTimeout time.Duration
	startTime    time.Time
	version      string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCheck adds a named readiness dependency.
func WithCheck(name string, p Pinger) HandlerOption {
	return func(h *Handler) {
		if p != nil {
			h.checks[name] = p
		}
	}
}

// WithEngine exposes engine counters on /status.
func WithEngine(e EngineStats) HandlerOption {
	return func(h *Handler) { h.engine = e }
}

// WithVersion sets the version reported on /status.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// NewHandler creates the ops handler.
func NewHandler(catalog CatalogStatus, opts ...HandlerOption) *Handler {
	h := &Handler{
		catalog:      catalog,
		checks:       make(map[string]Pinger),
		checkTimeout: 2 * time.Second,
		startTime:    time.Now(),
		version:      "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]any{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// ReadyResponse is the /readyz body.
type ReadyResponse struct {
	Ready         bool              `json:"ready"`
	CatalogLoaded bool              `json:"catalog_loaded"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// Readyz is the readiness probe.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{
		CatalogLoaded: h.catalog != nil && h.catalog.Loaded(),
		Checks:        make(map[string]string, len(h.checks)),
	}
	resp.Ready = resp.CatalogLoaded

	ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
	defer cancel()

	for _, name := range h.checkNames() {
		if err := h.checks[name].Ping(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Ready = false
			continue
		}
		resp.Checks[name] = "ok"
	}

	if !resp.Ready {
		respondJSON(w, r, http.StatusServiceUnavailable, &APIResponse{
			Data:  resp,
			Error: &APIError{Code: ErrCodeServiceUnavailable, Message: "Not ready"},
		})
		return
	}
	respondData(w, r, http.StatusOK, resp)
}

// StatusResponse is the /status body.
type StatusResponse struct {
	Version       string             `json:"version"`
	UptimeSeconds float64            `json:"uptime_seconds"`
	CatalogBooks  int                `json:"catalog_books"`
	CatalogAsOf   *time.Time         `json:"catalog_as_of,omitempty"`
	Engine        *recommend.Metrics `json:"engine,omitempty"`
}

// Status reports catalog and engine state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.catalog != nil && h.catalog.Loaded() {
		resp.CatalogBooks = h.catalog.Len()
		asOf := h.catalog.AsOf()
		resp.CatalogAsOf = &asOf
	}
	if h.engine != nil {
		m := h.engine.GetMetrics()
		resp.Engine = &m
	}
	respondData(w, r, http.StatusOK, resp)
}

func (h *Handler) checkNames() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics refreshes the uptime gauge before delegating to the exposition handler.
func (h *Handler) Metrics(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.AppUptime.Set(time.Since(h.startTime).Seconds())
		next.ServeHTTP(w, r)
	}
}
