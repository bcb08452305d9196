package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otterscale/watchmux/internal/cmd/watch"
	"github.com/otterscale/watchmux/internal/config"
)

// WatchInjector builds a fully wired watch runner; see cmd/watchmux/wire.go.
type WatchInjector func() (*watch.Runner, func(), error)

// NewWatchCommand returns the cobra command that runs the watch client
// until interrupted.
func NewWatchCommand(conf *config.Config, newRunner WatchInjector) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Stream resource changes from the hub over a single multiplexed watch connection",
		Example: "watchmux watch --kinds=pods,deployments --server-url=https://hub.example.com",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, cleanup, err := newRunner()
			if err != nil {
				return fmt.Errorf("failed to initialize watch client: %w", err)
			}
			defer cleanup()

			return runner.Run(cmd.Context())
		},
	}

	if err := conf.BindFlags(cmd.Flags(), config.ClientOptions); err != nil {
		return nil, err
	}

	return cmd, nil
}
