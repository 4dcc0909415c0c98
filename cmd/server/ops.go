// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"net/http"
	"time"

	"github.com/tomtom215/shelfwise/internal/api"
	"github.com/tomtom215/shelfwise/internal/app"
	"github.com/tomtom215/shelfwise/internal/config"
)

// newOpsServer builds the probe and metrics listener. Readiness requires a
// loaded catalog snapshot plus a reachable store and cache.
func newOpsServer(cfg *config.Config, comps *app.Components) *http.Server {
	handler := api.NewHandler(comps.Snapshot,
		api.WithCheck("mongo", comps.DB),
		api.WithCheck("cache", comps.Cache),
		api.WithEngine(comps.Engine),
		api.WithVersion(version),
	)

	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
