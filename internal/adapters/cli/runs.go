package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/queries"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
)

// NewRunsCommand creates the runs command with subcommands
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored project runs",
		Long: `List and show runs stored with orbit run --persist.

Examples:
  orbit runs list
  orbit runs list --status FAILED --limit 5
  orbit runs show <run-id> --actions`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

// newRunsListCommand creates the runs list subcommand
func newRunsListCommand() *cobra.Command {
	var (
		status string
		name   string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := mediator.SendAs[*queries.ListRunsResponse](a.context(cmd.Context()), a.mediator, &queries.ListRunsQuery{
				Status: run.Status(status),
				Name:   name,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			runs := resp.Runs

			if listFormat(cmd) != "table" {
				items := make([]config.Value, len(runs))
				for i, r := range runs {
					items[i] = runSummary(r)
				}
				return printValue(cmd.OutOrStdout(), config.Seq(items...))
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs found")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tSTARTED\tINSTALL HOURS\tTOTAL CAPEX")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
					r.ID.Short(),
					r.Name,
					r.Status,
					r.StartedAt.Local().Format(time.DateTime),
					r.InstallationTime,
					formatMoney(r.TotalCapex),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (COMPLETED, PARTIAL, FAILED)")
	cmd.Flags().StringVar(&name, "name", "", "Filter by project name prefix")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to return")

	return cmd
}

// newRunsShowCommand creates the runs show subcommand
func newRunsShowCommand() *cobra.Command {
	var includeActions bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its phases and outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := mediator.SendAs[*queries.GetRunResponse](a.context(cmd.Context()), a.mediator, &queries.GetRunQuery{
				RunID:          args[0],
				IncludeActions: includeActions,
			})
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), runDetail(resp.Run))
		},
	}

	cmd.Flags().BoolVar(&includeActions, "actions", false, "Include the stored action log")
	return cmd
}

func runSummary(r *run.Run) config.Value {
	out := map[string]config.Value{
		"id":                config.String(r.ID.String()),
		"name":              config.String(r.Name),
		"status":            config.String(string(r.Status)),
		"started_at":        config.String(r.StartedAt.Format(time.RFC3339)),
		"elapsed":           config.String(r.Elapsed().String()),
		"installation_time": config.Number(r.InstallationTime),
		"project_time":      config.Number(r.ProjectTime),
		"total_capex":       config.Number(r.TotalCapex),
		"bos_capex":         config.Number(r.BOSCapex),
	}
	if r.NPV != nil {
		out["npv"] = config.Number(*r.NPV)
	}
	if r.Error != "" {
		out["error"] = config.String(r.Error)
	}
	return config.Map(out)
}

func runDetail(r *run.Run) config.Value {
	out := runSummary(r)

	phases := make([]config.Value, len(r.Phases))
	for i, p := range r.Phases {
		entry := map[string]config.Value{
			"name":              config.String(p.Name),
			"kind":              config.String(string(p.Kind)),
			"category":          config.String(p.Category),
			"start":             config.Number(p.Start),
			"duration":          config.Number(p.Duration),
			"system_cost":       config.Number(p.SystemCost),
			"installation_cost": config.Number(p.InstallationCost),
		}
		if p.Failed() {
			entry["error"] = config.String(p.Error)
		}
		phases[i] = config.Map(entry)
	}
	out = out.With("phases", config.Seq(phases...))
	out = out.With("config", r.Config)
	if !r.Outputs.IsNull() {
		out = out.With("outputs", r.Outputs)
	}

	if len(r.Actions) > 0 {
		actions := make([]config.Value, len(r.Actions))
		for i, act := range r.Actions {
			actions[i] = config.Map(map[string]config.Value{
				"phase":    config.String(act.Phase),
				"agent":    config.String(act.Agent),
				"action":   config.String(act.Action),
				"start":    config.Number(act.Start),
				"duration": config.Number(act.Duration),
				"cost":     config.Number(act.Cost),
			})
		}
		out = out.With("actions", config.Seq(actions...))
	}
	return out
}
