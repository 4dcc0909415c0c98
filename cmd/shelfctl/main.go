// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Command shelfctl is the Shelfwise operator CLI. It runs the recommendation
// engine in-process against the configured stores, using the same
// configuration sources as the server.
//
//	shelfctl recommend 64b7f0c2a1e4d5f6a7b8c9d0 --count 10
//	shelfctl rate 64b7f0c2a1e4d5f6a7b8c9d0 64b7f0c2a1e4d5f6a7b8c9d1 pos
//	shelfctl onboard 64b7f0c2a1e4d5f6a7b8c9d0 Fantasy "Science Fiction"
//	shelfctl catalog refresh
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/app"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// cli carries the state shared by every command. The loader and builder
// are swapped in tests.
type cli struct {
	loadConfig func() (*config.Config, error)
	build      func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app.Components, error)

	out        io.Writer
	jsonOutput bool
	logLevel   string

	cfg *config.Config
}

func newCLI(out io.Writer) *cli {
	return &cli{
		loadConfig: config.Load,
		build:      app.Build,
		out:        out,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newCLI(os.Stdout).rootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "shelfctl",
		Short:         "Shelfwise operator CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		c.recommendCommand(),
		c.rateCommand(),
		c.wishlistCommand(),
		c.onboardCommand(),
		c.rebuildCommand(),
		c.profileCommand(),
		c.catalogCommand(),
		c.signalCommand(),
	)
	return root
}

// setup loads configuration and initialises console logging on stderr.
func (c *cli) setup() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	level := cfg.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	logging.Init(logging.Config{
		Level:  level,
		Format: "console",
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})
	c.cfg = cfg
	return nil
}

// withComponents builds the components, runs fn and releases them.
func (c *cli) withComponents(ctx context.Context, fn func(ctx context.Context, comps *app.Components) error) error {
	comps, err := c.build(ctx, c.cfg, logging.Logger())
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error releasing resources")
		}
	}()
	return fn(ctx, comps)
}

// withCatalog is withComponents with the snapshot loaded from the disk cache
// or the store.
func (c *cli) withCatalog(ctx context.Context, fn func(ctx context.Context, comps *app.Components) error) error {
	return c.withComponents(ctx, func(ctx context.Context, comps *app.Components) error {
		if err := comps.Snapshot.Load(ctx); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return fn(ctx, comps)
	})
}
