// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/eventprocessor"
)

// signalCommand publishes a preference signal to JetStream instead of
// applying it in-process, so it goes through the server's consumer.
func (c *cli) signalCommand() *cobra.Command {
	var sig eventprocessor.Signal
	var kind string

	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Publish a preference signal to the signal stream",
		Long: `Publish a rating, wishlist or onboarding signal on the JetStream
subject <signals.subject_prefix>.<kind>. Requires a binary built with -tags nats.

Examples:
  shelfctl signal --kind rating --user <id> --book <id> --rating pos
  shelfctl signal --kind onboarding --user <id> --genre Fantasy --genre Mystery`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sig.Kind = eventprocessor.SignalKind(kind)
			// Validate before dialing so bad flags fail fast.
			payload, err := json.Marshal(&sig)
			if err != nil {
				return err
			}
			if _, err := eventprocessor.ParseSignal(payload); err != nil {
				return err
			}

			pub, err := eventprocessor.NewPublisher(c.cfg.Signals.URL, c.cfg.Signals.SubjectPrefix, nil)
			if err != nil {
				return err
			}
			defer pub.Close()

			if err := pub.Publish(cmd.Context(), &sig); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "published %s\n", eventprocessor.Subject(c.cfg.Signals.SubjectPrefix, sig.Kind))
			return err
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "signal kind: rating, wishlist or onboarding")
	cmd.Flags().StringVar(&sig.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&sig.BookID, "book", "", "book id (rating, wishlist)")
	cmd.Flags().StringVar(&sig.Rating, "rating", "", "pos, neg or mid (rating)")
	cmd.Flags().StringSliceVar(&sig.Genres, "genre", nil, "genre (onboarding, repeatable)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
