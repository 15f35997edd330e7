package local

import (
	"fmt"

	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/namehash"
	"nathanbeddoewebdev/namectl/internal/util"

	"github.com/spf13/cobra"
)

// RegisterCommand returns the "local register" subcommand.
func RegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Add or replace a name in the local catalogue",
		Long: `Add or replace a name in the local catalogue. Existing text and
other-address records are kept.

Examples:
  namectl local register alice.eth --owner 0xabc...
  namectl local register alice.eth --owner 0xabc... --resolver 0x4976... --addr 0xabc...
  namectl local register alice.eth --owner 0xabc... --records-migrated=false`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRegister,
		SilenceUsage: true,
	}

	cmd.Flags().String("owner", "", "Owner address (required)")
	cmd.Flags().String("resolver", "", "Resolver address")
	cmd.Flags().String("addr", "", "Primary address record")
	cmd.Flags().Bool("records-migrated", true, "Whether the name's records have been migrated to a current resolver")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := util.NormalizeName(args[0])
	if err := util.ValidateName(name); err != nil {
		return err
	}

	owner, _ := cmd.Flags().GetString("owner")
	resolver, _ := cmd.Flags().GetString("resolver")
	addr, _ := cmd.Flags().GetString("addr")
	migrated, _ := cmd.Flags().GetBool("records-migrated")

	if !namehash.IsAddress(owner) {
		return fmt.Errorf("--owner must be a 0x-prefixed 20-byte address")
	}
	if resolver != "" && !namehash.IsAddress(resolver) {
		return fmt.Errorf("--resolver must be a 0x-prefixed 20-byte address")
	}
	if addr != "" && !namehash.IsAddress(addr) {
		return fmt.Errorf("--addr must be a 0x-prefixed 20-byte address")
	}

	p, err := openLocal()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	d := domain.Domain{Name: name, Owner: owner, Resolver: resolver, Addr: addr, Content: "0x"}
	if err := p.PutDomain(ctx, d); err != nil {
		return err
	}
	if err := p.SetRecordsMigrated(ctx, name, migrated); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (node %s).\n", name, namehash.Hex(name))
	return nil
}
