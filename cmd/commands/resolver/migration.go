package resolver

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/namectl/cmd/commands/cmdutil"
	"nathanbeddoewebdev/namectl/internal/names/domain"
	"nathanbeddoewebdev/namectl/internal/names/panel"
	"nathanbeddoewebdev/namectl/internal/names/policy"

	"github.com/spf13/cobra"
)

// MigrationCommand returns the "resolver migration" subcommand.
func MigrationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migration <name>",
		Short: "Check whether a name's resolver needs migrating",
		Long: `Report whether a name uses the old public resolver or a deprecated
resolver, and whether its records have been migrated.

Examples:
  namectl resolver migration alice.eth
  namectl resolver migration alice.eth -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runMigration,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

type migrationReport struct {
	Name     string `json:"name"`
	Resolver string `json:"resolver"`
	domain.MigrationInfo
	NeedsMigration bool `json:"needsMigration"`
}

func runMigration(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

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
	if !policy.IsResolverSet(d.Resolver) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no resolver set.\n", d.Name)
		return nil
	}

	info, err := s.Service.ResolverMigrationInfo(ctx, d.Name, d.Resolver)
	if err != nil {
		return fmt.Errorf("failed to check resolver: %w", err)
	}

	report := migrationReport{
		Name:           d.Name,
		Resolver:       d.Resolver,
		MigrationInfo:  *info,
		NeedsMigration: policy.NeedsMigration(false, *info),
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", report.Name)
	fmt.Fprintf(w, "Resolver:\t%s\n", report.Resolver)
	fmt.Fprintf(w, "Old public resolver:\t%s\n", yesNo(info.IsOldPublicResolver))
	fmt.Fprintf(w, "Deprecated resolver:\t%s\n", yesNo(info.IsDeprecatedResolver))
	fmt.Fprintf(w, "Records migrated:\t%s\n", yesNo(info.AreRecordsMigrated))
	if report.NeedsMigration {
		fmt.Fprintf(w, "\n%s\n", panel.MigrationWarningText)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
