// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/tomtom215/shelfwise/internal/catalog"
)

var (
	bracketedAside = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

	// editionQualifiers are printing and packaging variants that do not
	// change the work.
	editionQualifiers = regexp.MustCompile(`(?i)` + strings.Join([]string{
		`\b(?:\d+(?:st|nd|rd|th)\s+)?anniversary\s+edition\b`,
		`\bmovie\s+tie[\s-]?in(?:\s+edition)?\b`,
		`\btie[\s-]?in\s+edition\b`,
		`\b(?:deluxe|special|collector'?s|illustrated|revised|expanded|international|mass\s+market|library|reissue|first|second|third|\d+(?:st|nd|rd|th))\s+edition\b`,
		`\b(?:first|second|third|\d+(?:st|nd|rd|th))\s+printing\b`,
		`\b(?:paperback|hardcover|unabridged|abridged)\b`,
		`\ba\s+novel\s*$`,
	}, "|"))
)

// normalizeText lower-cases s, replaces punctuation with spaces and
// collapses whitespace.
func normalizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTitle strips parenthetical asides and edition qualifiers.
func NormalizeTitle(title string) string {
	title = bracketedAside.ReplaceAllString(title, " ")
	title = editionQualifiers.ReplaceAllString(title, " ")
	return normalizeText(title)
}

// NormalizeAuthor folds case, punctuation and whitespace so "J. Doe" and
// "j.  doe" compare equal.
func NormalizeAuthor(author string) string {
	return normalizeText(author)
}

// TitleRatio is the fuzzy similarity of two normalized titles on a 0-100
// scale: 200 * LCS / (len(a) + len(b)).
func TitleRatio(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	return 200 * float64(edlib.LCS(a, b)) / float64(la+lb)
}

// duplicateKey caches the normalized fields of a book for pairwise checks.
type duplicateKey struct {
	authors map[string]struct{}
	title   string
}

func newDuplicateKey(b *catalog.Book) duplicateKey {
	authors := make(map[string]struct{}, len(b.Authors))
	for _, a := range b.Authors {
		if n := NormalizeAuthor(a); n != "" {
			authors[n] = struct{}{}
		}
	}
	return duplicateKey{authors: authors, title: NormalizeTitle(b.Title)}
}

// sharesAuthor reports whether the two author sets intersect.
func (k duplicateKey) sharesAuthor(other duplicateKey) bool {
	small, large := k.authors, other.authors
	if len(small) > len(large) {
		small, large = large, small
	}
	for a := range small {
		if _, ok := large[a]; ok {
			return true
		}
	}
	return false
}

func (k duplicateKey) duplicates(other duplicateKey, threshold float64) bool {
	if k.sharesAuthor(other) {
		return true
	}
	return TitleRatio(k.title, other.title) >= threshold
}

// IsDuplicate reports whether a and b share an author or have titles whose
// fuzzy ratio is at least threshold.
func IsDuplicate(a, b *catalog.Book, threshold float64) bool {
	return newDuplicateKey(a).duplicates(newDuplicateKey(b), threshold)
}
