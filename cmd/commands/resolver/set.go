package resolver

import (
	"fmt"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/names/namehash"
	"nathanbeddoewebdev/namectl/internal/names/panel"

	"github.com/spf13/cobra"
)

// SetCommand returns the "resolver set" subcommand.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <name> <address>",
		Short: "Point a name at a resolver",
		Long: `Point a name at a resolver contract. Only the owner can change the resolver.

Example:
  namectl resolver set alice.eth 0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41`,
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	s, err := cmdutil.Open(cmd, args, cmdutil.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	d, err := s.Service.GetDomain(ctx, args[0])
	if err != nil {
		return err
	}
	if err := s.RequireOwner(d); err != nil {
		return err
	}

	edit := panel.Edit{Mutation: panel.MutationSetResolver, Value: args[1]}
	if err := s.Composer.Apply(ctx, *d, edit); err != nil {
		return fmt.Errorf("failed to set resolver: %w", err)
	}

	display := args[1]
	if checksummed, err := namehash.ChecksumAddress(args[1]); err == nil {
		display = checksummed
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Resolver for %s set to %s.\n", d.Name, display)
	return nil
}
