// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

type mockCatalog struct {
	mu     sync.Mutex
	loaded bool
	books  int
	asOf   time.Time
}

func (m *mockCatalog) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *mockCatalog) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books
}

func (m *mockCatalog) AsOf() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.asOf
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

type mockEngine struct{ m recommend.Metrics }

func (e mockEngine) GetMetrics() recommend.Metrics { return e.m }

func serve(t *testing.T, h http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) APIResponse {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
		Meta    APIMeta         `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("invalid data payload: %v", err)
		}
	}
	return APIResponse{Success: raw.Success, Error: raw.Error, Meta: raw.Meta}
}

// --- Test: liveness ---

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(&mockCatalog{}))
	rec := serve(t, router, http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode(t, rec, nil)
	if !resp.Success {
		t.Error("expected success envelope")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated X-Request-ID")
	}
	if resp.Meta.RequestID != rec.Header().Get(RequestIDHeader) {
		t.Errorf("meta request_id %q does not match header %q", resp.Meta.RequestID, rec.Header().Get(RequestIDHeader))
	}
}

// --- Test: readiness ---

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		loaded     bool
		checks     []HandlerOption
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "catalog not loaded",
			loaded:     false,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "loaded without checks",
			loaded:     true,
			wantStatus: http.StatusOK,
		},
		{
			name:   "loaded with healthy dependencies",
			loaded: true,
			checks: []HandlerOption{
				WithCheck("mongo", mockPinger{}),
				WithCheck("cache", mockPinger{}),
			},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"mongo": "ok", "cache": "ok"},
		},
		{
			name:   "cache down",
			loaded: true,
			checks: []HandlerOption{
				WithCheck("mongo", mockPinger{}),
				WithCheck("cache", mockPinger{err: errors.New("connection refused")}),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"mongo": "ok", "cache": "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := NewRouter(NewHandler(&mockCatalog{loaded: tt.loaded}, tt.checks...))
			rec := serve(t, router, http.MethodGet, "/readyz", nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ReadyResponse
			resp := decode(t, rec, &body)
			if body.Ready != (tt.wantStatus == http.StatusOK) {
				t.Errorf("ready = %v", body.Ready)
			}
			if body.CatalogLoaded != tt.loaded {
				t.Errorf("catalog_loaded = %v", body.CatalogLoaded)
			}
			for name, want := range tt.wantChecks {
				if got := body.Checks[name]; got != want {
					t.Errorf("check %s = %q, want %q", name, got, want)
				}
			}
			if tt.wantStatus != http.StatusOK && (resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable) {
				t.Errorf("expected SERVICE_UNAVAILABLE error, got %+v", resp.Error)
			}
		})
	}
}

// --- Test: status ---

func TestStatus(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHandler(
		&mockCatalog{loaded: true, books: 1234, asOf: asOf},
		WithEngine(mockEngine{m: recommend.Metrics{RequestCount: 7, EmptyCount: 2}}),
		WithVersion("1.2.3"),
	)
	rec := serve(t, NewRouter(h), http.MethodGet, "/status", nil)

	var body StatusResponse
	decode(t, rec, &body)
	if body.Version != "1.2.3" || body.CatalogBooks != 1234 {
		t.Errorf("status = %+v", body)
	}
	if body.CatalogAsOf == nil || !body.CatalogAsOf.Equal(asOf) {
		t.Errorf("catalog_as_of = %v", body.CatalogAsOf)
	}
	if body.Engine == nil || body.Engine.RequestCount != 7 || body.Engine.EmptyCount != 2 {
		t.Errorf("engine = %+v", body.Engine)
	}
}

// --- Test: routing and middleware ---

func TestRouterPreservesIncomingRequestID(t *testing.T) {
	t.Parallel()

	rec := serve(t, NewRouter(NewHandler(&mockCatalog{})), http.MethodGet, "/healthz",
		http.Header{RequestIDHeader: []string{"req-abc"}})

	if got := rec.Header().Get(RequestIDHeader); got != "req-abc" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if resp := decode(t, rec, nil); resp.Meta.RequestID != "req-abc" {
		t.Errorf("meta request_id = %q", resp.Meta.RequestID)
	}
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(&mockCatalog{}))

	rec := serve(t, router, http.MethodGet, "/v1/recommendations", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
	if resp := decode(t, rec, nil); resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("unexpected error body: %+v", resp.Error)
	}

	rec = serve(t, router, http.MethodPost, "/healthz", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz status = %d", rec.Code)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	t.Parallel()

	rec := serve(t, NewRouter(NewHandler(&mockCatalog{})), http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "app_uptime_seconds") {
		t.Error("expected application metric families in exposition")
	}
}

func TestRequestMetricsUsesRoutePattern(t *testing.T) {
	t.Parallel()

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/status", "200")
	before := testutil.ToFloat64(counter)

	serve(t, NewRouter(NewHandler(&mockCatalog{})), http.MethodGet, "/status", nil)

	if got := testutil.ToFloat64(counter) - before; got < 1 {
		t.Errorf("request counter delta = %v, want >= 1", got)
	}
}
