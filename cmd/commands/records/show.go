package records

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ShowCommand returns the "records show" subcommand.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show the resolver and records of a name",
		Long: `Show the resolver and records panel for a name.

In a terminal this opens an interactive panel where owners can edit and add
records. Otherwise, or with --output, the panel is printed.

Examples:
  namectl records show alice.eth
  namectl records show alice.eth -o json
  namectl records show alice.eth --account 0xabc...`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "", "Output format: text or json (default: interactive in a terminal)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	output, _ := cmd.Flags().GetString("output")
	interactive := output == "" && term.IsTerminal(int(os.Stdout.Fd()))

	s, err := cmdutil.Open(cmd, args, cmdutil.Options{LogToFile: interactive})
	if err != nil {
		return err
	}
	defer s.Close()

	if interactive {
		return tui.RunRecordsPanel(s.Service, s.Composer, s.DisplayName, name, s.Account)
	}

	view, _, err := loadPanel(cmd.Context(), s, name)
	if err != nil {
		return err
	}

	switch output {
	case "", "text":
		return renderText(cmd.OutOrStdout(), view)
	case "json":
		return renderJSON(cmd.OutOrStdout(), view)
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}
