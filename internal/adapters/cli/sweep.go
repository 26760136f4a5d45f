package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/orbit-go/internal/adapters/projectfile"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/commands"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// NewSweepCommand creates the sweep command
func NewSweepCommand() *cobra.Command {
	var (
		persist     bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "sweep <sweep.yaml>",
		Short: "Run a parametric study over a base project",
		Long: `Run every combination of the parameter values in a sweep file.

A sweep file names a base project, the dot paths to vary and the output
paths to report:

  name: depth-study
  base: project.yaml
  parameters:
    site.depth: [20, 30, 40]
    plant.num_turbines: [50, 100]
  outputs: [installation_time, bos_capex]
  concurrency: 4

Failed cases are reported in their row and do not stop the sweep.

Examples:
  orbit sweep sweep.yaml
  orbit sweep sweep.yaml -o json --persist`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep, err := projectfile.LoadSweep(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(persist)
			if err != nil {
				return err
			}
			defer a.close()

			series, err := a.loadWeather(sweep.Base.Weather)
			if err != nil {
				return err
			}
			limit := concurrency
			if limit <= 0 {
				limit = sweep.Concurrency
			}
			if limit <= 0 {
				limit = a.cfg.Simulation.SweepConcurrency
			}

			out, err := mediator.SendAs[*commands.RunSweepResponse](a.context(cmd.Context()), a.mediator, &commands.RunSweepCommand{
				Name:        sweep.Name,
				Base:        sweep.Base.Config,
				Parameters:  sweep.Parameters,
				Outputs:     sweep.Outputs,
				Weather:     series,
				Concurrency: limit,
				Persist:     persist,
			})
			if err != nil {
				return err
			}

			if err := printSweep(cmd, sweep, out); err != nil {
				return err
			}
			if out.Failed > 0 {
				return fmt.Errorf("%d of %d cases failed", out.Failed, len(out.Rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "Store every case as a run")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Projects simulated at once (default from the sweep file or config)")

	return cmd
}

func printSweep(cmd *cobra.Command, sweep *projectfile.Sweep, resp *commands.RunSweepResponse) error {
	params := sweep.ParameterPaths()

	if listFormat(cmd) != "table" {
		rows := make([]config.Value, len(resp.Rows))
		for i, row := range resp.Rows {
			entry := map[string]config.Value{
				"case":       config.Int(row.Index),
				"parameters": config.Map(row.Parameters),
				"outputs":    config.Map(row.Outputs),
			}
			if !row.RunID.IsZero() {
				entry["run_id"] = config.String(row.RunID.String())
			}
			if row.Error != "" {
				entry["error"] = config.String(row.Error)
			}
			rows[i] = config.Map(entry)
		}
		return printValue(cmd.OutOrStdout(), config.Seq(rows...))
	}

	tw := newTable(cmd.OutOrStdout())
	header := append([]string{"CASE"}, params...)
	header = append(header, sweep.Outputs...)
	header = append(header, "ERROR")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range resp.Rows {
		cells := []string{fmt.Sprint(row.Index)}
		for _, p := range params {
			cells = append(cells, row.Parameters[p].String())
		}
		for _, o := range sweep.Outputs {
			cells = append(cells, row.Outputs[o].String())
		}
		cells = append(cells, row.Error)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
