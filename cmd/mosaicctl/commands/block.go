package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newBlockCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "block <user-name>...",
		Short: "Block authors from every mosaic",
		Long:  `Posts by blocked authors are skipped from now on. Pieces already placed stay.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				body := map[string]string{"user_name": name}
				if err := client().do(cmd.Context(), http.MethodPost, "/api/block-users", body, nil); err != nil {
					return fmt.Errorf("blocking %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "blocked %s\n", name)
			}
			return nil
		},
	}
}

func newBlockedCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "blocked",
		Short: "List blocked authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out struct {
				UserNames []string `json:"user_names"`
			}
			if err := client().do(cmd.Context(), http.MethodGet, "/api/block-users", nil, &out); err != nil {
				return err
			}
			for _, name := range out.UserNames {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
