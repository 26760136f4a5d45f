package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	orbitgrpc "github.com/andrescamacho/orbit-go/internal/adapters/grpc"
	"github.com/andrescamacho/orbit-go/internal/adapters/projectfile"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/commands"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// continueOnFailure overrides simulation.continue_on_failure for one command
var continueOnFailure bool

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		persist        bool
		includeActions bool
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <project.yaml>",
		Short: "Run a project and print its outputs",
		Long: `Design and simulate every project document in a YAML file.

Outputs include installation time, the capex breakdown, phase dates and,
when array, export and substation progress exists, the cash flow and NPV.
A file with several documents prints one output tree per project name.

Examples:
  orbit run project.yaml
  orbit run project.yaml --persist --actions -o json
  orbit run project.yaml --continue-on-failure
  orbit run project.yaml --daemon localhost:50061`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := projectfile.LoadDocuments(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if daemonAddr != "" {
				return runRemote(ctx, cmd, docs, persist, includeActions)
			}
			return runLocal(ctx, cmd, docs, persist, includeActions)
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "Store the run and its action log in the database")
	cmd.Flags().BoolVar(&includeActions, "actions", false, "Include the action log in the outputs")
	cmd.Flags().BoolVar(&continueOnFailure, "continue-on-failure", false, "Keep running after a phase fails")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the run after this long")

	return cmd
}

func runLocal(ctx context.Context, cmd *cobra.Command, docs []*projectfile.Document, persist, includeActions bool) error {
	a, err := newApp(persist)
	if err != nil {
		return err
	}
	defer a.close()
	ctx = a.context(ctx)

	outputs := make(map[string]config.Value, len(docs))
	for _, doc := range docs {
		series, err := a.loadWeather(doc.Weather)
		if err != nil {
			return err
		}
		out, err := mediator.SendAs[*commands.RunProjectResponse](ctx, a.mediator, &commands.RunProjectCommand{
			Name:    doc.Name,
			Config:  doc.Config,
			Weather: series,
			Persist: persist,
		})
		if err != nil {
			return err
		}
		if persist {
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s stored (%s)\n", out.Run.ID, out.Run.Status)
		}
		outputs[doc.Name] = out.Result.Outputs(includeActions)
	}
	return printOutputs(cmd.OutOrStdout(), docs, outputs)
}

func runRemote(ctx context.Context, cmd *cobra.Command, docs []*projectfile.Document, persist, includeActions bool) error {
	client, err := orbitgrpc.Dial(daemonAddr)
	if err != nil {
		return err
	}
	defer client.Close()

	outputs := make(map[string]config.Value, len(docs))
	for _, doc := range docs {
		reply, err := client.RunProject(ctx, doc.Name, doc.Config, absPath(doc.Weather), persist, includeActions)
		if err != nil {
			return fmt.Errorf("project %q failed: %w", doc.Name, err)
		}
		if persist {
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s stored (%s)\n", reply.RunID, reply.Status)
		}
		outputs[doc.Name] = reply.Outputs
	}
	return printOutputs(cmd.OutOrStdout(), docs, outputs)
}

// absPath resolves weather paths before they are sent to a daemon with a
// different working directory
func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func printOutputs(w io.Writer, docs []*projectfile.Document, outputs map[string]config.Value) error {
	if len(docs) == 1 {
		return printValue(w, outputs[docs[0].Name])
	}
	return printValue(w, config.Map(outputs))
}
