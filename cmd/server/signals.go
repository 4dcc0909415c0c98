// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"errors"

	"github.com/tomtom215/shelfwise/internal/app"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/eventprocessor"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/supervisor"
)

// addSignalConsumer registers the JetStream signal consumer in the signal
// layer. It is a no-op when signals are disabled, and logs a warning when
// they are enabled in a binary built without the nats tag.
func addSignalConsumer(tree *supervisor.SupervisorTree, cfg *config.Config, comps *app.Components) {
	if !cfg.Signals.Enabled {
		logging.Info().Msg("Signal ingestion disabled (NATS_ENABLED=false)")
		return
	}

	dispatcher := eventprocessor.NewDispatcher(comps.Engine, logging.Logger())
	consumer, err := eventprocessor.NewSignalConsumer(eventprocessor.ConfigFromSettings(&cfg.Signals), dispatcher, nil)
	switch {
	case errors.Is(err, eventprocessor.ErrNATSNotEnabled):
		logging.Warn().Msg("Signals enabled but this binary was built without -tags nats")
		return
	case err != nil:
		logging.Error().Err(err).Msg("Invalid signal consumer configuration, signal ingestion disabled")
		return
	}

	tree.AddSignalService(consumer)
	logging.Info().
		Str("stream", cfg.Signals.Stream).
		Str("subjects", eventprocessor.WildcardSubject(cfg.Signals.SubjectPrefix)).
		Bool("embedded_server", cfg.Signals.EmbeddedServer).
		Msg("Signal consumer added to supervisor tree")
}
