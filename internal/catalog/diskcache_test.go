// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDiskCache_SaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books_cache.json")
	dc := NewDiskCache(path)

	if dc.Exists() {
		t.Fatal("Exists() = true before Save")
	}

	published := time.Date(2019, 5, 14, 0, 0, 0, 0, time.UTC)
	books := []Book{
		{
			ID:              primitive.NewObjectID(),
			Title:           "Dune",
			Authors:         []string{"Frank Herbert"},
			GenreTags:       []string{"Science Fiction"},
			Embedding:       []float64{0.1, 0.2},
			PublicationDate: published,
		},
		{
			ID:    primitive.NewObjectID(),
			Title: "Undated",
		},
	}

	if err := dc.Save(books); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !dc.Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := dc.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load() returned %d books, want 2", len(loaded))
	}
	if loaded[0].ID != books[0].ID {
		t.Errorf("ID = %s, want %s", loaded[0].ID.Hex(), books[0].ID.Hex())
	}
	if !loaded[0].PublicationDate.Equal(published) {
		t.Errorf("PublicationDate = %v, want %v", loaded[0].PublicationDate, published)
	}
	if len(loaded[0].Embedding) != 2 {
		t.Errorf("Embedding len = %d, want 2", len(loaded[0].Embedding))
	}

	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !loaded[1].PublicationDate.Equal(want) {
		t.Errorf("missing date loaded as %v, want %v", loaded[1].PublicationDate, want)
	}
}

func TestDiskCache_FileFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books_cache.json")
	dc := NewDiskCache(path)

	id := primitive.NewObjectID()
	if err := dc.Save([]Book{{ID: id, Title: "Emma"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("cache file is not a JSON array: %v", err)
	}
	if raw[0]["_id"] != id.Hex() {
		t.Errorf("_id = %v, want hex %s", raw[0]["_id"], id.Hex())
	}
	if raw[0]["publication_date"] != DefaultPublicationDate {
		t.Errorf("publication_date = %v, want %s", raw[0]["publication_date"], DefaultPublicationDate)
	}
}

func TestDiskCache_LoadNaiveISODate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books_cache.json")
	id := primitive.NewObjectID()
	content := `[{"_id":"` + id.Hex() + `","title":"Test Book","publication_date":"2024-01-01T00:00:00"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	books, err := NewDiskCache(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if books[0].ID != id {
		t.Errorf("ID not rehydrated: %s", books[0].ID.Hex())
	}
	if books[0].PublicationDate.Year() != 2024 {
		t.Errorf("PublicationDate = %v, want 2024", books[0].PublicationDate)
	}
}

func TestDiskCache_LoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"not json", "{{{", "decode"},
		{"bad id", `[{"_id":"nope","publication_date":"2000-01-01"}]`, "invalid id"},
		{"bad date", `[{"_id":"` + primitive.NewObjectID().Hex() + `","publication_date":"yesterday"}]`, "publication_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "books_cache.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			_, err := NewDiskCache(path).Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
