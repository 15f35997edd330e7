package auth

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/namectl/internal/names/providers"
	"nathanbeddoewebdev/namectl/internal/services/auth"
	"nathanbeddoewebdev/namectl/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status for providers",
		Long: `Show which providers have stored API tokens.

Example:
  namectl auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()
			providerNames := providers.List()

			// Use TUI in interactive terminal.
			if term.IsTerminal(int(os.Stdout.Fd())) {
				if err := tui.RunAuthStatus(store, providerNames); err != nil {
					return fmt.Errorf("auth status failed: %w", err)
				}
				return nil
			}

			if len(providerNames) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers registered.")
				return nil
			}

			for _, s := range tui.ProviderStatuses(store, providerNames) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", s.Name, s.Status)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
