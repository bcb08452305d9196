// Package main is the entry point for the watchmux binary. It runs a
// long-lived watch client that multiplexes all subscribed resource
// kinds over a single push channel to the hub.
//
// Dependencies are assembled via Google Wire; see wire.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otterscale/watchmux/internal/cmd"
	"github.com/otterscale/watchmux/internal/cmd/watch"
	"github.com/otterscale/watchmux/internal/config"
)

// version is injected at build time via -ldflags
// (e.g. -ldflags "-X main.version=v1.2.3").
var version = "devel"

func main() {
	// Cancel on SIGINT (Ctrl+C) or SIGTERM (container runtime).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Cobra is configured with SilenceErrors: true, so we
		// print the error here for consistent formatting.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires all dependencies and executes the root Cobra command.
func run(ctx context.Context) error {
	rootCmd, cleanup, err := wireCmd()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	return rootCmd.ExecuteContext(ctx)
}

// newCmd is a Wire provider that constructs the root Cobra command and
// registers the watch subcommand. The injector is wrapped in a closure
// so the runner is only built when the subcommand actually runs.
func newCmd(conf *config.Config) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:           "watchmux",
		Short:         "watchmux: multiplexed resource watch client for the hub push channel.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	watchCmd, err := cmd.NewWatchCommand(conf, func() (*watch.Runner, func(), error) {
		return wireRunner(conf)
	})
	if err != nil {
		return nil, err
	}

	manifestCmd, err := cmd.NewManifestCommand(conf)
	if err != nil {
		return nil, err
	}

	c.AddCommand(watchCmd, manifestCmd)

	return c, nil
}
