// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/recommend"
)

// printJSON writes v indented when --json is set and reports whether it did.
func (c *cli) printJSON(v any) (bool, error) {
	if !c.jsonOutput {
		return false, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return true, fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return true, err
}

func (c *cli) printRecommendations(resp *recommend.Response) error {
	if done, err := c.printJSON(resp); done {
		return err
	}

	meta := resp.Metadata
	fmt.Fprintf(c.out, "strategy=%s candidates=%d latency=%dms request=%s\n",
		meta.Strategy, meta.Candidates, meta.LatencyMS, meta.RequestID)
	if len(resp.Books) == 0 {
		fmt.Fprintln(c.out, "No recommendations yet: not enough signal for this user.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTITLE\tAUTHORS\tGENRES")
	for i := range resp.Books {
		b := &resp.Books[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, b.ID.Hex(), b.Title,
			strings.Join(b.Authors, ", "), strings.Join(b.GenreTags, ", "))
	}
	return w.Flush()
}

func (c *cli) printApply(signal string, res recommend.ApplyResult) error {
	if done, err := c.printJSON(res); done {
		return err
	}
	_, err := fmt.Fprintf(c.out, "%s: %s (genres touched: %d, embedding updated: %t)\n",
		signal, res.Status, res.GenresTouched, res.EmbeddingUpdated)
	return err
}

func (c *cli) printProfile(p *recommend.Profile) error {
	if done, err := c.printJSON(p); done {
		return err
	}

	nonZero := 0
	for _, v := range p.Embedding {
		if v != 0 {
			nonZero++
		}
	}
	fmt.Fprintf(c.out, "user=%s embedding_dim=%d non_zero=%d\n", p.UserID, len(p.Embedding), nonZero)

	genres := make([]string, 0, len(p.GenreWeights))
	for g := range p.GenreWeights {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		wi, wj := p.GenreWeights[genres[i]], p.GenreWeights[genres[j]]
		if wi != wj {
			return wi > wj
		}
		return genres[i] < genres[j]
	})

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GENRE\tWEIGHT")
	for _, g := range genres {
		fmt.Fprintf(w, "%s\t%.2f\n", g, p.GenreWeights[g])
	}
	return w.Flush()
}
