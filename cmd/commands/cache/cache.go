package cache

import (
	"fmt"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/swrcache"

	"github.com/spf13/cobra"
)

// NewCommand returns the "cache" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached record lists",
		Long: `Text records and other-chain addresses are cached on disk so the records
panel opens instantly. Use these commands to drop cached data.`,
		SilenceUsage: true,
	}

	cmdutil.AddSessionFlags(cmd)
	cmd.AddCommand(ClearCommand())

	return cmd
}

// ClearCommand returns the "cache clear" subcommand.
func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached records",
		Long: `Remove cached record lists for the selected provider, or for every
provider with --all.

Examples:
  namectl cache clear                    # default provider
  namectl cache clear --provider local
  namectl cache clear --all`,
		Args:         cobra.NoArgs,
		RunE:         runClear,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("all", false, "Remove cached records for every provider")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all {
		if err := swrcache.NewDefault().Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cached records.")
		return nil
	}

	s, err := cmdutil.Open(cmd, args, cmdutil.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Service.ClearCache(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached records for %s.\n", s.DisplayName)
	return nil
}
