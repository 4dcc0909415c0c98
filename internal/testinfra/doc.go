// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run the external services Shelfwise
// depends on. It is only compiled with the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// # MongoDB
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//	    // connect with mongo.URI
//	}
//
// # Redis
//
// NewRedisContainer starts a Redis server for exercising the profile cache
// against a real server rather than miniredis.
//
// # CI Considerations
//
// Tests are skipped gracefully if Docker is unavailable. First runs pull images.
package testinfra
