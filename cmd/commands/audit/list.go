package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/namectl/internal/auditlog"
	"nathanbeddoewebdev/namectl/internal/util"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  namectl audit list
  namectl audit list --limit 50
  namectl audit list --name alice.eth
  namectl audit list --command "namectl records set"
  namectl audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().String("name", "", "Filter by domain name")
	cmd.MarkFlagsMutuallyExclusive("command", "name")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	filter, _ := cmd.Flags().GetString("command")
	name, _ := cmd.Flags().GetString("name")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []auditlog.AuditEntry
	switch {
	case filter != "":
		entries, err = repo.ListByCommand(filter, limit)
	case name != "":
		entries, err = repo.ListByName(util.NormalizeName(name), limit)
	default:
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tOUTCOME\tDURATION\tRECORD\tACCOUNT\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t-------\t--------\t------\t-------\t------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		resource := formatResource(entry)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.Command,
			entry.Outcome,
			formatDuration(entry.DurationMs),
			resource,
			orDash(entry.Account),
			orDash(entry.Detail),
		)
	}
	w.Flush()
	return nil
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// formatResource renders the touched record as "<name> <kind>[:<key>]".
func formatResource(entry auditlog.AuditEntry) string {
	if entry.ResourceType == "" && entry.ResourceID == "" && entry.ResourceName == "" {
		return "-"
	}

	record := entry.ResourceType
	if entry.ResourceID != "" {
		if record != "" {
			record += ":" + entry.ResourceID
		} else {
			record = entry.ResourceID
		}
	}
	if entry.ResourceName == "" {
		return record
	}
	if record == "" {
		return entry.ResourceName
	}
	return entry.ResourceName + " " + record
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
