// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// IsZeroVector reports whether v is empty or all zeros.
func IsZeroVector(v []float64) bool {
	if len(v) == 0 {
		return true
	}
	return floats.Norm(v, math.Inf(1)) == 0
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped
// to [-1, 1]. Mismatched lengths or a zero vector yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (na * nb)
	switch {
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	}
	return sim
}

// BlendEmbedding returns (current + book) / 2. A current vector that is
// absent or has a different length is treated as zeros of the book's length.
func BlendEmbedding(current, book []float64) []float64 {
	out := make([]float64, len(book))
	if len(current) == len(book) {
		floats.AddTo(out, current, book)
	} else {
		copy(out, book)
	}
	floats.Scale(0.5, out)
	return out
}
