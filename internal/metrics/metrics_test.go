// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStoreQuery(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("update_one", "metrics_test"))

	RecordStoreQuery("update_one", "metrics_test", 5*time.Millisecond, nil)
	RecordStoreQuery("update_one", "metrics_test", 5*time.Millisecond, errors.New("timeout"))

	after := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("update_one", "metrics_test"))
	if after-before != 1 {
		t.Errorf("store errors delta = %v, want 1", after-before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("genre_only"))
	RecordRecommendation("genre_only", 3*time.Millisecond, 6)
	if got := testutil.ToFloat64(RecommendRequests.WithLabelValues("genre_only")) - before; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}
}

func TestRecordPreferenceUpdate_LowercasesStatus(t *testing.T) {
	before := testutil.ToFloat64(PreferenceUpdates.WithLabelValues("rating", "applied"))
	RecordPreferenceUpdate("rating", "Applied")
	if got := testutil.ToFloat64(PreferenceUpdates.WithLabelValues("rating", "applied")) - before; got != 1 {
		t.Errorf("updates delta = %v, want 1", got)
	}
}

func TestRecordBackfill(t *testing.T) {
	tests := []struct {
		name        string
		updated     int
		failed      int
		wantSuccess float64
		wantFailure float64
	}{
		{"all succeeded", 4, 0, 4, 0},
		{"partial failure", 2, 3, 2, 3},
		{"nothing", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s0 := testutil.ToFloat64(BackfillEmbeddings.WithLabelValues("success"))
			f0 := testutil.ToFloat64(BackfillEmbeddings.WithLabelValues("failure"))

			RecordBackfill(tt.updated, tt.failed, time.Millisecond)

			if got := testutil.ToFloat64(BackfillEmbeddings.WithLabelValues("success")) - s0; got != tt.wantSuccess {
				t.Errorf("success delta = %v, want %v", got, tt.wantSuccess)
			}
			if got := testutil.ToFloat64(BackfillEmbeddings.WithLabelValues("failure")) - f0; got != tt.wantFailure {
				t.Errorf("failure delta = %v, want %v", got, tt.wantFailure)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	h0 := testutil.ToFloat64(CacheHits.WithLabelValues("metrics_test"))
	m0 := testutil.ToFloat64(CacheMisses.WithLabelValues("metrics_test"))

	RecordCacheLookup("metrics_test", true)
	RecordCacheLookup("metrics_test", false)
	RecordCacheLookup("metrics_test", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("metrics_test")) - h0; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("metrics_test")) - m0; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordEncode(t *testing.T) {
	t0 := testutil.ToFloat64(EncoderTexts.WithLabelValues("metrics_test"))
	e0 := testutil.ToFloat64(EncoderErrors.WithLabelValues("metrics_test"))

	RecordEncode("metrics_test", 32, 40*time.Millisecond, nil)
	RecordEncode("metrics_test", 8, time.Second, errors.New("503"))

	if got := testutil.ToFloat64(EncoderTexts.WithLabelValues("metrics_test")) - t0; got != 40 {
		t.Errorf("texts delta = %v, want 40", got)
	}
	if got := testutil.ToFloat64(EncoderErrors.WithLabelValues("metrics_test")) - e0; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestRecordCatalogRefresh(t *testing.T) {
	e0 := testutil.ToFloat64(CatalogRefreshErrors.WithLabelValues("disk"))
	RecordCatalogRefresh("disk", time.Millisecond, 0, errors.New("corrupt"))
	RecordCatalogRefresh("disk", time.Millisecond, 10, nil)
	if got := testutil.ToFloat64(CatalogRefreshErrors.WithLabelValues("disk")) - e0; got != 1 {
		t.Errorf("refresh errors delta = %v, want 1", got)
	}
}

func TestRecordSignal(t *testing.T) {
	before := testutil.ToFloat64(SignalMessages.WithLabelValues("wishlist", "invalid"))
	RecordSignal("wishlist", "invalid", time.Millisecond)
	if got := testutil.ToFloat64(SignalMessages.WithLabelValues("wishlist", "invalid")) - before; got != 1 {
		t.Errorf("signal delta = %v, want 1", got)
	}
}
