// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalog item as stored in the Books collection.
type Book struct {
	// ID is the document identifier.
	ID primitive.ObjectID `bson:"_id" json:"id"`

	// Title is the display title, including any edition qualifiers.
	Title string `bson:"title" json:"title"`

	// Authors is the ordered author list.
	Authors []string `bson:"author" json:"author"`

	// GenreTags are the catalog genre tags, case-sensitive as stored.
	GenreTags []string `bson:"genre_tags" json:"genre_tags"`

	// Summary is the text the embedding is computed from.
	Summary string `bson:"summary" json:"summary"`

	// Embedding is the summary embedding. Empty means not yet computed.
	Embedding []float64 `bson:"embedding,omitempty" json:"embedding,omitempty"`

	PublicationDate time.Time `bson:"publication_date,omitempty" json:"publication_date"`
	ISBN            string    `bson:"isbn,omitempty" json:"isbn,omitempty"`
	ISBN13          string    `bson:"isbn13,omitempty" json:"isbn13,omitempty"`
	CoverImage      string    `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Publisher       string    `bson:"publisher,omitempty" json:"publisher,omitempty"`
	PageCount       int       `bson:"page_count,omitempty" json:"page_count,omitempty"`
	Language        string    `bson:"language,omitempty" json:"language,omitempty"`
}

// HasEmbedding reports whether the book carries a usable embedding.
// A present but empty embedding counts as missing.
func (b *Book) HasEmbedding() bool {
	return len(b.Embedding) > 0
}

// MissingEmbeddings returns the books in the list that need a backfill.
func MissingEmbeddings(books []Book) []Book {
	var missing []Book
	for i := range books {
		if !books[i].HasEmbedding() {
			missing = append(missing, books[i])
		}
	}
	return missing
}
