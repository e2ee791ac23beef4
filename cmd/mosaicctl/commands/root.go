// Package commands implements mosaicctl, a thin client for the
// insta-mosaic HTTP API.
package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd(version string) *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:   "mosaicctl",
		Short: "Drive insta-mosaic workers from the command line",
		Long: `mosaicctl starts, inspects and stops mosaic workers on an insta-mosaic
server and manages the blocked-user list.

The server address defaults to $MOSAIC_SERVER, then ` + defaultServer + `.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	if env := os.Getenv("MOSAIC_SERVER"); env != "" {
		server = env
	} else {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&server, "server", server, "insta-mosaic server base URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")

	client := func() *apiClient { return newAPIClient(server, timeout) }

	root.AddCommand(
		newStartCmd(client),
		newListCmd(client),
		newGetCmd(client),
		newStopCmd(client),
		newBlockCmd(client),
		newBlockedCmd(client),
	)
	return root
}
