package auth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"nathanbeddoewebdev/namectl/internal/names/providers"
	"nathanbeddoewebdev/namectl/internal/services/auth"
	"nathanbeddoewebdev/namectl/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <provider>",
		Short: "Store an API token for a provider",
		Long: `Store an API token for a provider using the local keychain.

When --token is omitted the token is prompted for, or read from stdin when
stdin is not a terminal.

Examples:
  namectl auth login graphql
  echo "$TOKEN" | namectl auth login graphql`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	provider := auth.NormalizeProvider(args[0])
	if err := checkProvider(provider); err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		var err error
		token, err = readToken(cmd, provider)
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := auth.DefaultStore().SetToken(provider, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for provider %s\n", provider)
	return nil
}

func readToken(cmd *cobra.Command, provider string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return tui.PromptToken(provider)
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// checkProvider rejects names no provider is registered under.
func checkProvider(provider string) error {
	known := providers.List()
	if len(known) > 0 && !slices.Contains(known, provider) {
		return fmt.Errorf("unknown provider %q (available: %s)", provider, strings.Join(known, ", "))
	}
	return nil
}
