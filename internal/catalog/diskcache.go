// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPublicationDate is written for books stored without a publication date.
const DefaultPublicationDate = "2000-01-01"

// isoLayout matches the naive ISO-8601 timestamps already present in
// existing cache files.
const isoLayout = "2006-01-02T15:04:05"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	isoLayout,
	"2006-01-02",
}

// cacheRecord is the on-disk form of a Book. Identifiers are hex strings and
// dates are ISO-8601 strings.
type cacheRecord struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Authors         []string  `json:"author"`
	GenreTags       []string  `json:"genre_tags"`
	Summary         string    `json:"summary"`
	Embedding       []float64 `json:"embedding"`
	PublicationDate string    `json:"publication_date"`
	ISBN            string    `json:"isbn,omitempty"`
	ISBN13          string    `json:"isbn13,omitempty"`
	CoverImage      string    `json:"cover_image,omitempty"`
	Publisher       string    `json:"publisher,omitempty"`
	PageCount       int       `json:"page_count,omitempty"`
	Language        string    `json:"language,omitempty"`
}

// DiskCache persists catalog snapshots as a JSON array so a restart does not
// need a full store scan.
type DiskCache struct {
	path string
}

// NewDiskCache creates a cache backed by the file at path.
func NewDiskCache(path string) *DiskCache {
	return &DiskCache{path: path}
}

// Path returns the cache file location.
func (d *DiskCache) Path() string {
	return d.path
}

// Exists reports whether a cache file is present.
func (d *DiskCache) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// Load reads the cache file and rehydrates identifiers and dates.
func (d *DiskCache) Load() ([]Book, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}

	var records []cacheRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}

	books := make([]Book, 0, len(records))
	for i := range records {
		book, err := records[i].toBook()
		if err != nil {
			return nil, fmt.Errorf("catalog cache record %d: %w", i, err)
		}
		books = append(books, book)
	}
	return books, nil
}

// Save writes the books to a temporary file and renames it over the cache
// file, so a concurrent Load never observes a truncated file.
func (d *DiskCache) Save(books []Book) error {
	records := make([]cacheRecord, len(books))
	for i := range books {
		records[i] = fromBook(&books[i])
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create catalog cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create catalog cache temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write catalog cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close catalog cache: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace catalog cache: %w", err)
	}
	return nil
}

func fromBook(b *Book) cacheRecord {
	date := DefaultPublicationDate
	if !b.PublicationDate.IsZero() {
		date = b.PublicationDate.UTC().Format(isoLayout)
	}
	return cacheRecord{
		ID:              b.ID.Hex(),
		Title:           b.Title,
		Authors:         b.Authors,
		GenreTags:       b.GenreTags,
		Summary:         b.Summary,
		Embedding:       b.Embedding,
		PublicationDate: date,
		ISBN:            b.ISBN,
		ISBN13:          b.ISBN13,
		CoverImage:      b.CoverImage,
		Publisher:       b.Publisher,
		PageCount:       b.PageCount,
		Language:        b.Language,
	}
}

func (r *cacheRecord) toBook() (Book, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return Book{}, fmt.Errorf("invalid id %q: %w", r.ID, err)
	}
	date, err := parseDate(r.PublicationDate)
	if err != nil {
		return Book{}, err
	}
	return Book{
		ID:              id,
		Title:           r.Title,
		Authors:         r.Authors,
		GenreTags:       r.GenreTags,
		Summary:         r.Summary,
		Embedding:       r.Embedding,
		PublicationDate: date,
		ISBN:            r.ISBN,
		ISBN13:          r.ISBN13,
		CoverImage:      r.CoverImage,
		Publisher:       r.Publisher,
		PageCount:       r.PageCount,
		Language:        r.Language,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		s = DefaultPublicationDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid publication_date " + s)
}
