package local

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/namectl/internal/names/providers"

	"github.com/spf13/cobra"
)

// ResolverCommand returns the "local resolver" subcommand.
func ResolverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolver [address]",
		Short: "Add a resolver to the local catalogue, or list the catalogue",
		Long: `Add or replace a resolver in the local catalogue. Resolvers missing from
the catalogue are treated as current. Without an address, lists the catalogue.

Examples:
  namectl local resolver
  namectl local resolver 0x5FfC014343cd971B7eb70732021E26C35B744cc4 --old --label "public v1"
  namectl local resolver 0x1da022710dF5002339274AaDEe8D58218e9D6AB5 --deprecated`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runResolver,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("old", false, "Mark as the old public resolver (records cannot be edited)")
	cmd.Flags().Bool("deprecated", false, "Mark as deprecated (migration recommended)")
	cmd.Flags().String("label", "", "Human-readable label")

	return cmd
}

func runResolver(cmd *cobra.Command, args []string) error {
	p, err := openLocal()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	if len(args) == 0 {
		resolvers, err := p.ListResolvers(ctx)
		if err != nil {
			return err
		}
		if len(resolvers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No resolvers in the catalogue.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ADDRESS\tLABEL\tOLD PUBLIC\tDEPRECATED")
		fmt.Fprintln(w, "-------\t-----\t----------\t----------")
		for _, r := range resolvers {
			label := r.Label
			if label == "" {
				label = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", r.Address, label, r.OldPublic, r.Deprecated)
		}
		return w.Flush()
	}

	old, _ := cmd.Flags().GetBool("old")
	deprecated, _ := cmd.Flags().GetBool("deprecated")
	label, _ := cmd.Flags().GetString("label")

	info := providers.ResolverInfo{Address: args[0], Label: label, OldPublic: old, Deprecated: deprecated}
	if err := p.PutResolver(ctx, info); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved resolver %s.\n", args[0])
	return nil
}
