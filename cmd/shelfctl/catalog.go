// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/app"
	"github.com/tomtom215/shelfwise/internal/catalog"
)

// errEncoderDisabled is returned by backfill when encoder.provider is none.
var errEncoderDisabled = errors.New("encoder provider is none, nothing to backfill with")

type catalogSummary struct {
	Books   int       `json:"books"`
	Missing int       `json:"missing_embeddings"`
	AsOf    time.Time `json:"as_of"`
}

func (c *cli) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the catalog snapshot",
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Reload the catalog from the store and rewrite the disk cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withComponents(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				if err := comps.Snapshot.Refresh(ctx); err != nil {
					return fmt.Errorf("refresh catalog: %w", err)
				}
				return c.printCatalog(comps.Snapshot)
			})
		},
	}

	backfill := &cobra.Command{
		Use:   "backfill",
		Short: "Compute embeddings for books that have none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withCatalog(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				if comps.Backfiller == nil {
					return errEncoderDisabled
				}
				missing := catalog.MissingEmbeddings(comps.Snapshot.Books())
				if len(missing) > 0 {
					if _, err := comps.Backfiller.Backfill(ctx, missing); err != nil {
						return fmt.Errorf("backfill: %w", err)
					}
				}
				return c.printCatalog(comps.Snapshot)
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the size and age of the catalog snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withCatalog(cmd.Context(), func(_ context.Context, comps *app.Components) error {
				return c.printCatalog(comps.Snapshot)
			})
		},
	}

	cmd.AddCommand(refresh, backfill, status)
	return cmd
}

func (c *cli) printCatalog(s *catalog.Snapshot) error {
	summary := catalogSummary{
		Books:   s.Len(),
		Missing: len(catalog.MissingEmbeddings(s.Books())),
		AsOf:    s.AsOf(),
	}
	if done, err := c.printJSON(summary); done {
		return err
	}
	_, err := fmt.Fprintf(c.out, "books=%d missing_embeddings=%d as_of=%s\n",
		summary.Books, summary.Missing, summary.AsOf.Format(time.RFC3339))
	return err
}
