package records

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/namectl/internal/names/panel"
)

// renderText writes the panel as plain text for non-interactive output.
func renderText(out io.Writer, v panel.View) error {
	if v.Kind == panel.ViewEmpty {
		_, err := fmt.Fprintln(out, "Nothing to show.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", v.Name)
	fmt.Fprintf(w, "%s:\t%s%s\n", v.Resolver.Label, v.Resolver.Display, fieldFlags(v.Resolver.Editable, v.Resolver.NeedsMigration))
	if v.Warning != "" {
		fmt.Fprintf(w, "Warning:\t%s\n", v.Warning)
	}
	if v.MigrationPending {
		fmt.Fprintln(w, "Migration:\tchecking")
	}

	if r := v.Records; r != nil {
		fmt.Fprintf(w, "\n%s\n", r.Title)
		if r.Notice != "" {
			fmt.Fprintf(w, "  %s\n", r.Notice)
		}
		writeItems(w, r.Items)
		writeSubList(w, r.OtherAddresses)
		writeSubList(w, r.TextRecords)

		if r.Add != nil && len(r.Add.Options) > 0 {
			labels := make([]string, len(r.Add.Options))
			for i, opt := range r.Add.Options {
				labels[i] = opt.Label
			}
			fmt.Fprintf(w, "\nCan add:\t%s\n", strings.Join(labels, ", "))
		}
	}

	return w.Flush()
}

func writeSubList(w io.Writer, list panel.SubList) {
	fmt.Fprintf(w, "\n%s\n", list.Title)
	switch {
	case !list.Loaded:
		fmt.Fprintln(w, "  (unavailable)")
	case len(list.Items) == 0:
		fmt.Fprintln(w, "  (none)")
	default:
		writeItems(w, list.Items)
	}
}

func writeItems(w io.Writer, items []panel.RecordItem) {
	for _, it := range items {
		fmt.Fprintf(w, "  %s\t%s%s\n", it.Label, it.Display, fieldFlags(it.Editable, false))
	}
}

func fieldFlags(editable, outdated bool) string {
	var flags []string
	if editable {
		flags = append(flags, "editable")
	}
	if outdated {
		flags = append(flags, "outdated")
	}
	if len(flags) == 0 {
		return ""
	}
	return "  [" + strings.Join(flags, ", ") + "]"
}

func renderJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
