// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package app assembles the recommendation components from configuration.

Both cmd/server and cmd/shelfctl call Build with the loaded configuration and
receive the Mongo stores, the profile cache, the encoder with its backfiller,
the catalog snapshot and the engine, wired together:

	comps, err := app.Build(ctx, cfg, logging.Logger())
	if err != nil {
	    return err
	}
	defer comps.Close()

	if err := comps.Snapshot.Load(ctx); err != nil {
	    return err
	}
	resp, err := comps.Engine.Recommend(ctx, recommend.Request{UserID: id})

The mapping helpers (EngineConfig, EncoderConfig, CacheConfig and friends)
translate koanf sections into the option structs of each package.
*/
package app
