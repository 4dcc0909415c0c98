// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/shelfwise/internal/catalog"
)

// Scorer ranks catalog books against a preference profile.
type Scorer struct {
	blendWeight float64
}

// NewScorer creates a scorer. blendWeight scales the genre term in blended
// scoring.
func NewScorer(blendWeight float64) *Scorer {
	return &Scorer{blendWeight: blendWeight}
}

// Rank scores every unshelved book and returns them sorted by descending
// score. Ties keep catalog order.
//
// A profile with a zero embedding is scored on genre weights alone, using a
// case-insensitive substring match of each weighted genre against the book's
// tags. Otherwise the score is cosine similarity plus blendWeight times the
// sum of weights of the book's tags, matched exactly.
//
//nolint:gocritic // hugeParam: profile passed by value for immutability
func (s *Scorer) Rank(profile Profile, books []catalog.Book, shelves Shelves) ([]ScoredCandidate, Strategy) {
	candidates := make([]ScoredCandidate, 0, len(books))
	for i := range books {
		if shelves.Contains(books[i].ID) {
			continue
		}
		candidates = append(candidates, ScoredCandidate{Book: books[i]})
	}
	if len(candidates) == 0 {
		return nil, StrategyEmpty
	}

	var strategy Strategy
	if IsZeroVector(profile.Embedding) {
		strategy = StrategyGenreOnly
		terms := genreTerms(profile.GenreWeights)
		for i := range candidates {
			candidates[i].Score = genreOnlyScore(terms, candidates[i].Book.GenreTags)
		}
	} else {
		strategy = StrategyBlended
		for i := range candidates {
			b := &candidates[i].Book
			candidates[i].Score = CosineSimilarity(profile.Embedding, b.Embedding) +
				s.blendWeight*GenreScore(profile.GenreWeights, b.GenreTags)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, strategy
}

// GenreScore sums the weights of the given tags, matched exactly.
func GenreScore(weights map[string]float64, tags []string) float64 {
	var score float64
	for _, tag := range tags {
		score += weights[tag]
	}
	return score
}

type genreTerm struct {
	lower  string
	weight float64
}

// genreTerms lower-cases the weighted genres in a fixed order so float
// summation is reproducible.
func genreTerms(weights map[string]float64) []genreTerm {
	keys := make([]string, 0, len(weights))
	for g := range weights {
		if strings.TrimSpace(g) != "" {
			keys = append(keys, g)
		}
	}
	sort.Strings(keys)

	terms := make([]genreTerm, len(keys))
	for i, g := range keys {
		terms[i] = genreTerm{lower: strings.ToLower(g), weight: weights[g]}
	}
	return terms
}

// genreOnlyScore adds each genre's weight once if it is a substring of any
// of the book's tags.
func genreOnlyScore(terms []genreTerm, tags []string) float64 {
	if len(terms) == 0 || len(tags) == 0 {
		return 0
	}
	lowered := make([]string, len(tags))
	for i, t := range tags {
		lowered[i] = strings.ToLower(t)
	}

	var score float64
	for _, term := range terms {
		for _, tag := range lowered {
			if strings.Contains(tag, term.lower) {
				score += term.weight
				break
			}
		}
	}
	return score
}
