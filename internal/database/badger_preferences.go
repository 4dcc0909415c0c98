// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

const (
	badgerCollection      = "badger_preferences"
	genreWeightsKeyPrefix = "pref:genre_weights:"
	embeddingKeyPrefix    = "pref:embedding:"
)

// BadgerPreferenceStore persists user profiles in an embedded badger
// database, for single node deployments where profiles should not live in
// the shared Users collection.
type BadgerPreferenceStore struct {
	db    *badger.DB
	owned bool
}

// OpenBadgerPreferenceStore opens (or creates) a store at path.
func OpenBadgerPreferenceStore(path string) (*BadgerPreferenceStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger preference store at %s: %w", path, err)
	}
	return &BadgerPreferenceStore{db: db, owned: true}, nil
}

// NewBadgerPreferenceStore wraps an already opened database. Close does not
// close it.
func NewBadgerPreferenceStore(db *badger.DB) *BadgerPreferenceStore {
	return &BadgerPreferenceStore{db: db}
}

// LoadPreference reads the stored profile. found is false when neither the
// weights nor the embedding have been written.
func (s *BadgerPreferenceStore) LoadPreference(_ context.Context, userID string) (recommend.Profile, bool, error) {
	profile := recommend.Profile{UserID: userID}
	found := false

	start := time.Now()
	err := s.db.View(func(txn *badger.Txn) error {
		ok, err := getJSON(txn, genreWeightsKeyPrefix+userID, &profile.GenreWeights)
		if err != nil {
			return err
		}
		found = found || ok

		ok, err = getJSON(txn, embeddingKeyPrefix+userID, &profile.Embedding)
		if err != nil {
			return err
		}
		found = found || ok
		return nil
	})
	observe("load_preference", badgerCollection, start, err)
	if err != nil {
		return recommend.Profile{}, false, fmt.Errorf("failed to load preferences for %s: %w", userID, err)
	}
	return profile, found, nil
}

// SaveGenreWeights replaces the user's genre weight map.
func (s *BadgerPreferenceStore) SaveGenreWeights(_ context.Context, userID string, weights map[string]float64) error {
	if weights == nil {
		weights = map[string]float64{}
	}
	return s.put("save_genre_weights", genreWeightsKeyPrefix+userID, weights)
}

// SaveEmbedding replaces the user's preference embedding.
func (s *BadgerPreferenceStore) SaveEmbedding(_ context.Context, userID string, embedding []float64) error {
	if embedding == nil {
		embedding = []float64{}
	}
	return s.put("save_embedding", embeddingKeyPrefix+userID, embedding)
}

// Close closes the underlying database if the store opened it.
func (s *BadgerPreferenceStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *BadgerPreferenceStore) put(op, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	observe(op, badgerCollection, start, err)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// getJSON decodes the value at key into out. It reports false for a missing key.
func getJSON(txn *badger.Txn, key string, out any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
	if err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
