// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"math"
	"math/rand"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !approxEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestIsZeroVector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    []float64
		want bool
	}{
		{"nil", nil, true},
		{"empty", []float64{}, true},
		{"zeros", make([]float64, 384), true},
		{"one nonzero", []float64{0, 0, 1e-12}, false},
		{"negative", []float64{-1, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsZeroVector(tt.v); got != tt.want {
				t.Errorf("IsZeroVector() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 1}, []float64{-1, -1}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty book", []float64{1, 2}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CosineSimilarity(tt.a, tt.b); !approxEqual(got, tt.want) {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := make([]float64, 16)
		b := make([]float64, 16)
		for j := range a {
			a[j] = rng.NormFloat64()
			b[j] = rng.NormFloat64()
		}
		sim := CosineSimilarity(a, b)
		if sim < -1 || sim > 1 {
			t.Fatalf("CosineSimilarity() = %v, outside [-1, 1]", sim)
		}
		if self := CosineSimilarity(a, a); !approxEqual(self, 1) {
			t.Fatalf("CosineSimilarity(x, x) = %v, want 1", self)
		}
	}
}

func TestBlendEmbedding(t *testing.T) {
	t.Parallel()

	b := []float64{2, 4, 6}
	c := []float64{4, 0, -2}

	first := BlendEmbedding(make([]float64, 3), b)
	if !vectorsEqual(first, []float64{1, 2, 3}) {
		t.Errorf("first blend = %v, want B/2", first)
	}

	second := BlendEmbedding(first, c)
	if !vectorsEqual(second, []float64{2.5, 1, 0.5}) {
		t.Errorf("second blend = %v, want (B/2 + C)/2", second)
	}

	fromNil := BlendEmbedding(nil, b)
	if !vectorsEqual(fromNil, []float64{1, 2, 3}) {
		t.Errorf("blend from nil = %v, want B/2", fromNil)
	}

	if b[0] != 2 {
		t.Error("BlendEmbedding modified its input")
	}
}
