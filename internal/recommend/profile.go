// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"

	"github.com/rs/zerolog"
)

// ProfileRepository reads profiles through the cache and writes them to the
// store first, then mirrors them to the cache.
type ProfileRepository struct {
	store  PreferenceStore
	cache  ProfileCache
	dim    int
	logger zerolog.Logger
}

// NewProfileRepository creates a repository. cache may be nil.
func NewProfileRepository(store PreferenceStore, cache ProfileCache, dim int, logger zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{
		store:  store,
		cache:  cache,
		dim:    dim,
		logger: logger,
	}
}

// Load returns the user's profile. Unknown users get the zero profile. Cache
// failures fall back to the store and are not surfaced; store failures are.
func (r *ProfileRepository) Load(ctx context.Context, userID string) (Profile, error) {
	profile := Profile{UserID: userID}

	var (
		stored      Profile
		storeLoaded bool
	)
	loadStore := func() error {
		if storeLoaded {
			return nil
		}
		p, _, err := r.store.LoadPreference(ctx, userID)
		if err != nil {
			return wrapKind(KindStoreUnavailable, err, userID, "load preference")
		}
		stored = p
		storeLoaded = true
		return nil
	}

	emb, ok := r.cachedEmbedding(ctx, userID)
	if ok {
		profile.Embedding = emb
	} else {
		if err := loadStore(); err != nil {
			return Profile{}, err
		}
		profile.Embedding = stored.Embedding
		if len(profile.Embedding) == 0 {
			profile.Embedding = make([]float64, r.dim)
		}
		r.mirrorEmbedding(ctx, userID, profile.Embedding)
	}

	weights, ok := r.cachedGenreWeights(ctx, userID)
	if ok {
		profile.GenreWeights = weights
	} else {
		if err := loadStore(); err != nil {
			return Profile{}, err
		}
		profile.GenreWeights = stored.GenreWeights
		if profile.GenreWeights == nil {
			profile.GenreWeights = make(map[string]float64)
		}
		r.mirrorGenreWeights(ctx, userID, profile.GenreWeights)
	}

	return profile, nil
}

// SaveGenreWeights persists the weights and mirrors them to the cache.
func (r *ProfileRepository) SaveGenreWeights(ctx context.Context, userID string, weights map[string]float64) error {
	if err := r.store.SaveGenreWeights(ctx, userID, weights); err != nil {
		return wrapKind(KindStoreUnavailable, err, userID, "save genre weights")
	}
	if r.cache != nil {
		if err := r.cache.SetGenreWeights(ctx, userID, weights); err != nil {
			return wrapKind(KindCacheUnavailable, err, userID, "cache genre weights")
		}
	}
	return nil
}

// SaveEmbedding persists the embedding and mirrors it to the cache.
func (r *ProfileRepository) SaveEmbedding(ctx context.Context, userID string, embedding []float64) error {
	if err := r.store.SaveEmbedding(ctx, userID, embedding); err != nil {
		return wrapKind(KindStoreUnavailable, err, userID, "save embedding")
	}
	if r.cache != nil {
		if err := r.cache.SetEmbedding(ctx, userID, embedding); err != nil {
			return wrapKind(KindCacheUnavailable, err, userID, "cache embedding")
		}
	}
	return nil
}

func (r *ProfileRepository) cachedEmbedding(ctx context.Context, userID string) ([]float64, bool) {
	if r.cache == nil {
		return nil, false
	}
	emb, ok, err := r.cache.GetEmbedding(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Embedding cache read failed, using store")
		return nil, false
	}
	if ok && len(emb) == 0 {
		return nil, false
	}
	return emb, ok
}

func (r *ProfileRepository) cachedGenreWeights(ctx context.Context, userID string) (map[string]float64, bool) {
	if r.cache == nil {
		return nil, false
	}
	weights, ok, err := r.cache.GetGenreWeights(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Genre weight cache read failed, using store")
		return nil, false
	}
	if ok && weights == nil {
		weights = make(map[string]float64)
	}
	return weights, ok
}

// mirrorEmbedding repopulates the cache after a miss. Failures only cost a
// future miss, so they are logged.
func (r *ProfileRepository) mirrorEmbedding(ctx context.Context, userID string, emb []float64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetEmbedding(ctx, userID, emb); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to repopulate embedding cache")
	}
}

func (r *ProfileRepository) mirrorGenreWeights(ctx context.Context, userID string, weights map[string]float64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetGenreWeights(ctx, userID, weights); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to repopulate genre weight cache")
	}
}
