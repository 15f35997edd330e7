package records

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"

	"github.com/spf13/cobra"
)

// recordKinds maps CLI kind names to record kinds.
var recordKinds = map[string]domain.RecordKind{
	"address":       domain.RecordKindAddress,
	"content":       domain.RecordKindContent,
	"text":          domain.RecordKindText,
	"other-address": domain.RecordKindOtherAddresses,
}

// SetCommand returns the "records set" subcommand.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <name> <kind> <value>",
		Short: "Set a record on a name",
		Long: `Set a single record on a name.

Kinds:
  address         primary address record
  content         content hash (ipfs://, bzz:// or 0x-encoded)
  text            text record; requires --key
  other-address   address on another chain; requires --key with the coin

An empty value ("") clears a text record.

Examples:
  namectl records set alice.eth address 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed
  namectl records set alice.eth content ipfs://QmRAQB6YaCyidP37UdDnjFY5vQuiBrcqdyoW1CuDgwxkD4
  namectl records set alice.eth text "https://example.com" --key url
  namectl records set alice.eth other-address 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa --key BTC`,
		Args:         cobra.ExactArgs(3),
		RunE:         runSet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Text record key or coin symbol")

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	name, kindArg, value := args[0], strings.ToLower(strings.TrimSpace(args[1])), strings.TrimSpace(args[2])
	key, _ := cmd.Flags().GetString("key")
	key = strings.TrimSpace(key)

	kind, ok := recordKinds[kindArg]
	if !ok {
		return fmt.Errorf("unknown record kind %q (valid: address, content, text, other-address)", kindArg)
	}
	if (kind == domain.RecordKindText || kind == domain.RecordKindOtherAddresses) && key == "" {
		return fmt.Errorf("--key is required for %s records", kindArg)
	}

	s, err := cmdutil.Open(cmd, args, cmdutil.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	d, err := s.Service.GetDomain(ctx, name)
	if err != nil {
		return err
	}
	if err := s.RequireOwner(d); err != nil {
		return err
	}
	if err := checkEditable(ctx, s, d); err != nil {
		return err
	}

	edit, err := panel.AddEdit(*d, kind, key, value)
	if err != nil {
		return err
	}
	if err := s.Composer.Apply(ctx, *d, edit); err != nil {
		return fmt.Errorf("failed to set %s record: %w", kindArg, err)
	}

	label := kindArg
	if key != "" {
		label += " " + key
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s on %s.\n", label, d.Name)
	return nil
}
