package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otterscale/watchmux/internal/config"
	"github.com/otterscale/watchmux/internal/manifest"
)

// NewManifestCommand returns the cobra command that prints the
// Kubernetes installation manifest for the watch client. Flags are
// local to this command; unset values fall back to the loaded
// configuration.
func NewManifestCommand(conf *config.Config) (*cobra.Command, error) {
	var (
		namespace string
		image     string
		serverURL string
		kinds     []string
	)

	cmd := &cobra.Command{
		Use:     "manifest",
		Short:   "Print the Kubernetes installation manifest",
		Example: "watchmux manifest --kinds=pods,deployments --server-url=https://hub.example.com | kubectl apply -f -",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if serverURL == "" {
				serverURL = conf.ClientServerURL()
			}
			if len(kinds) == 0 {
				kinds = conf.ClientKinds()
			}

			out, err := manifest.NewRenderer().Render(manifest.Params{
				Namespace: namespace,
				Image:     image,
				ServerURL: serverURL,
				Kinds:     kinds,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "watchmux-system", "Namespace to deploy into")
	cmd.Flags().StringVar(&image, "image", "ghcr.io/otterscale/watchmux:latest", "Container image reference")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "Hub server base URL (defaults to configuration)")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "Resource kinds to watch (defaults to configuration)")

	return cmd, nil
}
