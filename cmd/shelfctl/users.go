// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/app"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

var ratingChoices = []string{
	recommend.RatingPositive.String(),
	recommend.RatingNegative.String(),
	recommend.RatingNeutral.String(),
}

func (c *cli) recommendCommand() *cobra.Command {
	var (
		count int
		fresh bool
	)
	cmd := &cobra.Command{
		Use:   "recommend <user>",
		Short: "Print recommendations for a user",
		Long: `Score the catalog for a user and print the selected books.

With --fresh the user's profile is rebuilt from their rated and to-read
shelves before scoring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if _, err := database.ParseObjectID(userID); err != nil {
				return err
			}
			if count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", count)
			}

			return c.withCatalog(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				req := recommend.Request{UserID: userID, Count: count, RequestID: logging.GenerateRequestID()}
				recommendFn := comps.Engine.Recommend
				if fresh {
					recommendFn = comps.Engine.RecommendFresh
				}
				resp, err := recommendFn(ctx, req)
				if err != nil {
					return err
				}
				return c.printRecommendations(resp)
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of books (0 uses recommend.default_count)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "rebuild the profile from shelves first")
	return cmd
}

func (c *cli) rateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <user> <book> <pos|neg|mid>",
		Short: "Apply a rating signal",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, rating := args[0], strings.ToLower(args[2])
			bookID, err := database.ParseObjectID(args[1])
			if err != nil {
				return err
			}
			if _, err := database.ParseObjectID(userID); err != nil {
				return err
			}
			if !isRating(rating) {
				return fmt.Errorf("rating must be one of %s, got %q", strings.Join(ratingChoices, ", "), args[2])
			}

			return c.withComponents(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				res, err := comps.Engine.ApplyRating(ctx, userID, bookID, rating)
				if err != nil {
					return err
				}
				return c.printApply("rating", res)
			})
		},
	}
}

func (c *cli) wishlistCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "wishlist <user> <book>",
		Short: "Apply a wishlist signal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			bookID, err := database.ParseObjectID(args[1])
			if err != nil {
				return err
			}
			if _, err := database.ParseObjectID(userID); err != nil {
				return err
			}

			return c.withComponents(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				res, err := comps.Engine.ApplyWishlist(ctx, userID, bookID)
				if err != nil {
					return err
				}
				return c.printApply("wishlist", res)
			})
		},
	}
}

func (c *cli) onboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard <user> <genre>...",
		Short: "Apply onboarding genre choices",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, genres := args[0], args[1:]
			if _, err := database.ParseObjectID(userID); err != nil {
				return err
			}

			return c.withComponents(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				res, err := comps.Engine.ApplyOnboarding(ctx, userID, genres)
				if err != nil {
					return err
				}
				return c.printApply("onboarding", res)
			})
		},
	}
}

func (c *cli) rebuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <user>",
		Short: "Rebuild a user's profile from their shelves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if _, err := database.ParseObjectID(userID); err != nil {
				return err
			}

			return c.withComponents(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				res, err := comps.Engine.Rebuild(ctx, userID)
				if err != nil {
					return err
				}
				if done, err := c.printJSON(res); done {
					return err
				}
				_, err = fmt.Fprintf(c.out, "rebuilt %s: %d ratings, %d wishlist, %d skipped\n",
					userID, res.Ratings, res.Wishlist, res.Skipped)
				return err
			})
		},
	}
}

func (c *cli) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <user>",
		Short: "Show a user's genre weights and embedding summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if _, err := database.ParseObjectID(userID); err != nil {
				return err
			}

			return c.withComponents(cmd.Context(), func(ctx context.Context, comps *app.Components) error {
				p, err := comps.Engine.Profile(ctx, userID)
				if err != nil {
					return err
				}
				return c.printProfile(&p)
			})
		},
	}
}

func isRating(s string) bool {
	for _, r := range ratingChoices {
		if s == r {
			return true
		}
	}
	return false
}
