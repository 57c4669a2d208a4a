package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoApp = errors.New("app not initialized")

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Ping the task API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := GetApp()
			if a == nil || a.Client == nil {
				return errNoApp
			}
			status, err := a.Client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("API unreachable: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	})
}
