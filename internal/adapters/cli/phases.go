package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/queries"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

// NewPhasesCommand creates the phases command
func NewPhasesCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "phases",
		Short: "List the registered design and installation phases",
		Long: `List every phase that can be named in design_phases or install_phases.

Examples:
  orbit phases
  orbit phases --kind design
  orbit phases -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := mediator.SendAs[*queries.ListPhasesResponse](a.context(cmd.Context()), a.mediator, &queries.ListPhasesQuery{Kind: phase.Kind(kind)})
			if err != nil {
				return err
			}
			infos := resp.Phases

			if listFormat(cmd) != "table" {
				out := make(map[string]config.Value, len(infos))
				for _, p := range infos {
					out[p.Name] = config.Map(map[string]config.Value{
						"kind":     config.String(string(p.Kind)),
						"category": config.String(p.Category),
						"inputs":   config.Strings(p.Inputs...),
						"outputs":  config.Strings(p.Outputs...),
					})
				}
				return printValue(cmd.OutOrStdout(), config.Map(out))
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tKIND\tCATEGORY\tOUTPUTS")
			for _, p := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Kind, p.Category, strings.Join(p.Outputs, ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list design or install phases")
	return cmd
}
