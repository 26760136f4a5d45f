package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrescamacho/orbit-go/internal/application/logging"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// RunProjectCommand runs one project document
type RunProjectCommand struct {
	Name    string
	Config  config.Value
	Weather *weather.Series // optional
	// Persist stores the run and its action log in the run repository
	Persist bool
}

// RunProjectResponse carries the run record and the full result
type RunProjectResponse struct {
	Run    *run.Run
	Result *project.Result
}

// RunProjectHandler handles the RunProject command
type RunProjectHandler struct {
	registries appProject.RegistryFactory
	runs       run.RunRepository
	settings   appProject.Settings
}

// NewRunProjectHandler creates a new RunProjectHandler. runs may be nil
// when nothing is persisted.
func NewRunProjectHandler(registries appProject.RegistryFactory, runs run.RunRepository, settings appProject.Settings) *RunProjectHandler {
	return &RunProjectHandler{
		registries: registries,
		runs:       runs,
		settings:   settings,
	}
}

// Handle executes the RunProject command
func (h *RunProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunProjectCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunProjectCommand")
	}
	if cmd.Persist && h.runs == nil {
		return nil, fmt.Errorf("run persistence is not configured")
	}

	record := run.NewRun(cmd.Name, cmd.Config, h.settings.Clock)
	logger := logging.FromContext(ctx).With("run_id", record.ID.Short(), "project", cmd.Name)

	res, err := h.execute(ctx, cmd, logger)
	if err != nil {
		_ = record.Fail(err, h.settings.Clock)
	} else if cerr := record.Complete(res, h.settings.Clock); cerr != nil {
		return nil, cerr
	}

	if cmd.Persist {
		if serr := h.runs.Save(ctx, record); serr != nil {
			return nil, fmt.Errorf("failed to save run: %w", serr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("project %q failed: %w", cmd.Name, err)
	}
	return &RunProjectResponse{Run: record, Result: res}, nil
}

func (h *RunProjectHandler) execute(ctx context.Context, cmd *RunProjectCommand, logger *slog.Logger) (*project.Result, error) {
	p, err := project.New(cmd.Config, h.registries(), h.settings.Options(logger, cmd.Weather))
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}
