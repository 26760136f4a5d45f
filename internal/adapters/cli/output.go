package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/orbit-go/internal/adapters/projectfile"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// printValue writes v in the --output format. table prints one leaf path
// per row.
func printValue(w io.Writer, v config.Value) error {
	switch outputFormat {
	case "", "yaml":
		return projectfile.WriteYAML(w, v)
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tVALUE")
		for _, path := range v.Leaves() {
			leaf, _ := v.Get(path)
			fmt.Fprintf(tw, "%s\t%s\n", path, leaf.String())
		}
		return tw.Flush()
	}
	return fmt.Errorf("unsupported output format: %s", outputFormat)
}

// listFormat is the output format of list commands, which default to table
func listFormat(cmd *cobra.Command) string {
	if cmd.Flags().Changed("output") {
		return outputFormat
	}
	return "table"
}

// newTable returns a tabwriter laid out like the other list commands
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
