// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package encoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

// fakeEmbeddingServer answers /embeddings with vectors of the given
// dimension, returned in reverse index order.
type fakeEmbeddingServer struct {
	mu       sync.Mutex
	dim      int
	status   int
	requests []embeddingRequest
}

func (f *fakeEmbeddingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/embeddings" {
		http.NotFound(w, r)
		return
	}
	var req embeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	status, dim := f.status, f.dim
	f.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
		return
	}

	data := make([]map[string]interface{}, 0, len(req.Input))
	for i := len(req.Input) - 1; i >= 0; i-- {
		vec := make([]float64, dim)
		vec[0] = float64(i)
		data = append(data, map[string]interface{}{
			"object":    "embedding",
			"index":     i,
			"embedding": vec,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"object": "list",
		"data":   data,
		"model":  req.Model,
		"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
	})
}

func newTestOpenAIEncoder(t *testing.T, srv *fakeEmbeddingServer, dim int) *OpenAIEncoder {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	enc, err := NewOpenAIEncoder(OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: ts.URL,
		Model:   "text-embedding-3-small",
	}, dim, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIEncoder() error = %v", err)
	}
	return enc
}

// --- Test: OpenAIEncoder ---

func TestOpenAIEncoder_EncodeOrdersByIndex(t *testing.T) {
	t.Parallel()

	srv := &fakeEmbeddingServer{dim: 3}
	enc := newTestOpenAIEncoder(t, srv, 3)

	vectors, err := enc.Encode(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("len(vectors) = %d, want 3", len(vectors))
	}
	for i, v := range vectors {
		if v[0] != float64(i) {
			t.Errorf("vectors[%d][0] = %v, want %d", i, v[0], i)
		}
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(srv.requests))
	}
	if got := srv.requests[0]; got.Dimensions != 3 || got.Model != "text-embedding-3-small" {
		t.Errorf("request = %+v, want dimensions 3 and configured model", got)
	}
}

func TestOpenAIEncoder_EmptyInput(t *testing.T) {
	t.Parallel()

	srv := &fakeEmbeddingServer{dim: 3}
	enc := newTestOpenAIEncoder(t, srv, 3)

	vectors, err := enc.Encode(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Errorf("Encode(nil) = %v, %v; want nil, nil", vectors, err)
	}
	if len(srv.requests) != 0 {
		t.Error("empty input made a request")
	}
}

func TestOpenAIEncoder_DimensionMismatch(t *testing.T) {
	t.Parallel()

	srv := &fakeEmbeddingServer{dim: 2}
	enc := newTestOpenAIEncoder(t, srv, 3)

	if _, err := enc.Encode(context.Background(), []string{"a"}); err == nil {
		t.Error("Encode() = nil error, want dimension mismatch")
	}
}

func TestOpenAIEncoder_ServerError(t *testing.T) {
	t.Parallel()

	srv := &fakeEmbeddingServer{dim: 3, status: http.StatusBadRequest}
	enc := newTestOpenAIEncoder(t, srv, 3)

	if _, err := enc.Encode(context.Background(), []string{"a"}); err == nil {
		t.Error("Encode() = nil error, want server error")
	}
}

func TestNewOpenAIEncoder_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewOpenAIEncoder(OpenAIConfig{Model: "m"}, 3, 0); err == nil {
		t.Error("missing key and base url accepted")
	}
	if _, err := NewOpenAIEncoder(OpenAIConfig{APIKey: "k"}, 3, 0); err == nil {
		t.Error("missing model accepted")
	}
}
