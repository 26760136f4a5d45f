package commands

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/orbit-go/internal/application/logging"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// DefaultSweepConcurrency bounds parallel projects when the command does not
const DefaultSweepConcurrency = 4

// RunSweepCommand runs the cartesian product of parameter values over a
// base project. Parameters map dot paths to the values they take.
type RunSweepCommand struct {
	Name        string
	Base        config.Value
	Parameters  map[string][]config.Value
	Outputs     []string // dot paths into the result outputs
	Weather     *weather.Series
	Concurrency int
	Persist     bool
}

// SweepRow is one case of a sweep
type SweepRow struct {
	Index      int
	Parameters map[string]config.Value
	Outputs    map[string]config.Value
	RunID      run.RunID
	Error      string
}

// RunSweepResponse lists rows in case order
type RunSweepResponse struct {
	Rows   []SweepRow
	Failed int
}

// RunSweepHandler handles the RunSweep command
type RunSweepHandler struct {
	registries appProject.RegistryFactory
	runs       run.RunRepository
	settings   appProject.Settings
}

// NewRunSweepHandler creates a new RunSweepHandler
func NewRunSweepHandler(registries appProject.RegistryFactory, runs run.RunRepository, settings appProject.Settings) *RunSweepHandler {
	return &RunSweepHandler{
		registries: registries,
		runs:       runs,
		settings:   settings,
	}
}

// Handle executes the RunSweep command. A failing case is reported in its
// row; only cancellation aborts the sweep.
func (h *RunSweepHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunSweepCommand")
	}
	if len(cmd.Parameters) == 0 {
		return nil, fmt.Errorf("sweep requires at least one parameter")
	}
	if cmd.Persist && h.runs == nil {
		return nil, fmt.Errorf("run persistence is not configured")
	}

	cases := Cartesian(cmd.Parameters)
	limit := cmd.Concurrency
	if limit <= 0 {
		limit = DefaultSweepConcurrency
	}
	logger := logging.FromContext(ctx)
	logger.Info("sweep started", "sweep", cmd.Name, "cases", len(cases), "concurrency", limit)

	runner := NewRunProjectHandler(h.registries, h.runs, h.settings)
	rows := make([]SweepRow, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, params := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = h.runCase(gctx, runner, cmd, i, params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &RunSweepResponse{Rows: rows}
	for _, row := range rows {
		if row.Error != "" {
			resp.Failed++
		}
	}
	logger.Info("sweep complete", "sweep", cmd.Name, "cases", len(rows), "failed", resp.Failed)
	return resp, nil
}

func (h *RunSweepHandler) runCase(ctx context.Context, runner *RunProjectHandler, cmd *RunSweepCommand, i int, params map[string]config.Value) SweepRow {
	row := SweepRow{Index: i, Parameters: params, Outputs: map[string]config.Value{}}
	cfg := cmd.Base
	for path, v := range params {
		cfg = cfg.Set(path, v)
	}

	resp, err := runner.Handle(ctx, &RunProjectCommand{
		Name:    fmt.Sprintf("%s[%d]", cmd.Name, i),
		Config:  cfg,
		Weather: cmd.Weather,
		Persist: cmd.Persist,
	})
	if err != nil {
		row.Error = err.Error()
		return row
	}
	result := resp.(*RunProjectResponse)
	row.RunID = result.Run.ID
	outputs := result.Result.Outputs(false)
	for _, path := range cmd.Outputs {
		if v, ok := outputs.Get(path); ok {
			row.Outputs[path] = v
		} else {
			row.Outputs[path] = config.Null()
		}
	}
	return row
}

// Cartesian expands parameter values into cases. Paths vary in sorted
// order with the last path changing fastest.
func Cartesian(params map[string][]config.Value) []map[string]config.Value {
	paths := make([]string, 0, len(params))
	for p := range params {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	cases := []map[string]config.Value{{}}
	for _, path := range paths {
		var next []map[string]config.Value
		for _, c := range cases {
			for _, v := range params[path] {
				nc := make(map[string]config.Value, len(c)+1)
				for k, existing := range c {
					nc[k] = existing
				}
				nc[path] = v
				next = append(next, nc)
			}
		}
		cases = next
	}
	return cases
}

