// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package supervisor provides the suture v4 process tree for Shelfwise.
//
// Services are grouped into three child supervisors so that restarts stay
// local to a layer:
//
//	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
//	tree.AddCatalogService(services.NewCatalogService(snapshot, backfiller, cfg, logger))
//	tree.AddSignalService(consumer)
//	tree.AddAPIService(services.NewHTTPServerService(httpServer, 30*time.Second))
//	err := tree.Serve(ctx)
//
// Supervisor events (restarts, backoff, timeouts) are logged through
// sutureslog into the zerolog output.
package supervisor
