package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/namectl/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout <provider>",
		Short: "Remove the stored API token for a provider",
		Long: `Remove the stored API token for a provider from the local keychain.

Example:
  namectl auth logout graphql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := auth.NormalizeProvider(args[0])

			err := auth.DefaultStore().DeleteToken(provider)
			switch {
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "No token stored for provider %s\n", provider)
				return nil
			case err != nil:
				return fmt.Errorf("failed to remove token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for provider %s\n", provider)
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
