package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/application/project/commands"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/test/helpers"
)

func TestRunProjectHandler_CompletesAndPersists(t *testing.T) {
	// Arrange
	repo := helpers.NewMockRunRepository()
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, repo, testSettings())

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Name:    "trench",
		Config:  dredgeProject(t, 25, nil),
		Persist: true,
	})

	// Assert
	require.NoError(t, err)
	out := resp.(*commands.RunProjectResponse)
	assert.Equal(t, run.StatusCompleted, out.Run.Status)
	assert.Equal(t, 250.0, out.Result.InstallationTime)
	assert.InDelta(t, 250*helpers.DredgeRate, out.Result.Capex.Installation, 1e-6)
	assert.Equal(t, 250.0, out.Result.Config.FloatOr("dredge.hours", 0))
	assert.Len(t, out.Run.Phases, 2)
	assert.NotEmpty(t, out.Run.Actions)

	assert.Equal(t, 1, repo.SaveCount())
	stored, err := repo.FindByID(context.Background(), out.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, "trench", stored.Name)
}

func TestRunProjectHandler_DoesNotPersistByDefault(t *testing.T) {
	repo := helpers.NewMockRunRepository()
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, repo, testSettings())

	_, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Name:   "trench",
		Config: dredgeProject(t, 10, nil),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, repo.Count())
}

func TestRunProjectHandler_FailedRunIsRecorded(t *testing.T) {
	repo := helpers.NewMockRunRepository()
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, repo, testSettings())

	_, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Name: "no-crane",
		Config: dredgeProject(t, 10, map[string]interface{}{
			"dredge": map[string]interface{}{"needs_crane": true},
		}),
		Persist: true,
	})

	require.Error(t, err)
	var execErr *shared.PhaseExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "Dredging", execErr.Phase)

	runs, lerr := repo.List(context.Background(), run.ListFilter{Status: run.StatusFailed})
	require.NoError(t, lerr)
	require.Len(t, runs, 1)
	assert.Contains(t, runs[0].Error, "Crane")
}

func TestRunProjectHandler_ContinueOnFailureIsPartial(t *testing.T) {
	settings := testSettings()
	settings.ContinueOnFailure = true
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, nil, settings)

	resp, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Name: "partial",
		Config: dredgeProject(t, 10, map[string]interface{}{
			"install_phases": map[string]interface{}{"Dredging": 0, "Dredging_B": 0},
			"Dredging_B":     map[string]interface{}{"dredge": map[string]interface{}{"needs_crane": true}},
		}),
	})

	require.NoError(t, err)
	out := resp.(*commands.RunProjectResponse)
	assert.Equal(t, run.StatusPartial, out.Run.Status)
	assert.True(t, out.Result.Failed("Dredging_B"))
	assert.InDelta(t, 100*helpers.DredgeRate, out.Result.Capex.Installation, 1e-6)
}

func TestRunProjectHandler_WeatherDelaysStart(t *testing.T) {
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, nil, testSettings())
	series := helpers.NewWeather(500).Waves(0, 50, 3).Waves(50, 500, 1).Build(t)

	resp, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Name: "weather",
		Config: dredgeProject(t, 25, map[string]interface{}{
			"dredge": map[string]interface{}{"max_waveheight": 2},
		}),
		Weather: series,
	})

	require.NoError(t, err)
	out := resp.(*commands.RunProjectResponse)
	assert.Equal(t, 300.0, out.Result.InstallationTime)
}

func TestRunProjectHandler_PersistNeedsRepository(t *testing.T) {
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, nil, testSettings())

	_, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Config:  dredgeProject(t, 10, nil),
		Persist: true,
	})

	assert.Error(t, err)
}

func TestRunProjectHandler_SaveErrorIsReturned(t *testing.T) {
	repo := helpers.NewMockRunRepository()
	repo.SaveErr = errors.New("disk full")
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, repo, testSettings())

	_, err := handler.Handle(context.Background(), &commands.RunProjectCommand{
		Config:  dredgeProject(t, 10, nil),
		Persist: true,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunProjectHandler_RejectsOtherRequests(t *testing.T) {
	handler := commands.NewRunProjectHandler(helpers.TestRegistry, nil, testSettings())
	_, err := handler.Handle(context.Background(), &commands.RunSweepCommand{})
	assert.Error(t, err)
}
