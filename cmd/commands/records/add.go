package records

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/tui"

	"github.com/spf13/cobra"
)

// AddCommand returns the "records add" subcommand.
func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Interactively add a record to a name",
		Long: `Pick one of the record types that are still unset on a name and
enter its value.

Example:
  namectl records add alice.eth`,
		Args:         cobra.ExactArgs(1),
		RunE:         runAdd,
		SilenceUsage: true,
	}

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := cmdutil.Open(cmd, args, cmdutil.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := tui.AddRecordForm(s.Service, s.Composer, args[0], s.Account)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.Composer.Apply(cmd.Context(), result.Domain, result.Edit); err != nil {
		return fmt.Errorf("failed to add %s record: %w", result.Kind, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s record to %s.\n", result.Kind, result.Domain.Name)
	return nil
}
