//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/spf13/cobra"

	"github.com/otterscale/watchmux/internal/cmd/watch"
	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/core"
	"github.com/otterscale/watchmux/internal/kubernetes"
	"github.com/otterscale/watchmux/internal/metrics"
	"github.com/otterscale/watchmux/internal/stream"
)

func wireCmd() (*cobra.Command, func(), error) {
	panic(wire.Build(
		newCmd,
		config.ProviderSet,
	))
}

func wireRunner(conf *config.Config) (*watch.Runner, func(), error) {
	panic(wire.Build(
		watch.NewRunner,
		wire.Bind(new(core.StoreRegistry), new(*kubernetes.StoreRepo)),
		wire.Bind(new(core.StreamDialer), new(*stream.Dialer)),
		core.ProviderSet,
		kubernetes.ProviderSet,
		stream.ProviderSet,
		metrics.ProviderSet,
	))
}
