package resolver

import (
	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// NewCommand returns the "resolver" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolver",
		Short: "Manage the resolver of a name",
		Long: `Point a name at a resolver and check whether its resolver is outdated.

Outdated resolvers must be migrated before records can be edited again.`,
		SilenceUsage: true,
	}

	cmdutil.AddSessionFlags(cmd)

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(MigrationCommand())

	return cmd
}
