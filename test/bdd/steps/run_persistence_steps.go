package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/orbit-go/internal/adapters/persistence"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/application/project/commands"
	"github.com/andrescamacho/orbit-go/internal/application/project/queries"
	"github.com/andrescamacho/orbit-go/internal/application/setup"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/test/helpers"
)

type runPersistenceContext struct {
	mediator mediator.Mediator
	stored   *run.Run
	runErr   error
}

func (rp *runPersistenceContext) reset() {
	rp.mediator = nil
	rp.stored = nil
	rp.runErr = nil
}

func (rp *runPersistenceContext) aMediatorWithARunDatabase() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	repo := persistence.NewGormRunRepository(helpers.SharedTestDB)
	m, err := setup.NewHandlerRegistry(helpers.TestRegistry, repo, appProject.Settings{MaxHours: 10000}).CreateConfiguredMediator()
	if err != nil {
		return err
	}
	rp.mediator = m
	return nil
}

func trenchConfig(depth int, needsCrane bool) config.Value {
	return config.MustFromAny(map[string]interface{}{
		"site":           map[string]interface{}{"depth": depth},
		"port":           map[string]interface{}{"monthly_rate": 0},
		"dredge":         map[string]interface{}{"needs_crane": needsCrane},
		"design_phases":  []interface{}{"TrenchSizing"},
		"install_phases": map[string]interface{}{"Dredging": 0},
	})
}

func (rp *runPersistenceContext) send(name string, cfg config.Value) error {
	_, rp.runErr = rp.mediator.Send(context.Background(), &commands.RunProjectCommand{
		Name:    name,
		Config:  cfg,
		Persist: true,
	})
	return nil
}

func (rp *runPersistenceContext) iRunTheTrenchProjectWithPersistence(name string, depth int) error {
	return rp.send(name, trenchConfig(depth, false))
}

func (rp *runPersistenceContext) iRunACranelessTrenchProjectWithPersistence(name string) error {
	return rp.send(name, trenchConfig(10, true))
}

func (rp *runPersistenceContext) theRunIsStoredAs(name, status string) error {
	resp, err := mediator.SendAs[*queries.ListRunsResponse](context.Background(), rp.mediator, &queries.ListRunsQuery{Name: name})
	if err != nil {
		return err
	}
	runs := resp.Runs
	if len(runs) != 1 {
		return fmt.Errorf("expected one stored run named %s, got %d", name, len(runs))
	}
	if string(runs[0].Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, runs[0].Status)
	}

	got, err := mediator.SendAs[*queries.GetRunResponse](context.Background(), rp.mediator, &queries.GetRunQuery{
		RunID:          runs[0].ID.String(),
		IncludeActions: true,
	})
	if err != nil {
		return err
	}
	rp.stored = got.Run
	return nil
}

func (rp *runPersistenceContext) theStoredRunHasPhases(n int) error {
	if len(rp.stored.Phases) != n {
		return fmt.Errorf("expected %d phases, got %d", n, len(rp.stored.Phases))
	}
	return nil
}

func (rp *runPersistenceContext) theStoredActionLogIsNotEmpty() error {
	if len(rp.stored.Actions) == 0 {
		return fmt.Errorf("stored action log is empty")
	}
	return nil
}

func (rp *runPersistenceContext) theStoredErrorMentions(text string) error {
	if rp.runErr == nil {
		return fmt.Errorf("expected the run to fail")
	}
	if !strings.Contains(rp.stored.Error, text) {
		return fmt.Errorf("stored error %q does not mention %q", rp.stored.Error, text)
	}
	return nil
}

// InitializeRunPersistenceScenario registers the stored run steps
func InitializeRunPersistenceScenario(ctx *godog.ScenarioContext) {
	rp := &runPersistenceContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rp.reset()
		return ctx, nil
	})

	ctx.Step(`^a mediator with a run database$`, rp.aMediatorWithARunDatabase)
	ctx.Step(`^I run the trench project "([^"]*)" at (\d+) m depth with persistence$`, rp.iRunTheTrenchProjectWithPersistence)
	ctx.Step(`^I run a crane-less trench project "([^"]*)" with persistence$`, rp.iRunACranelessTrenchProjectWithPersistence)
	ctx.Step(`^the run "([^"]*)" is stored as (COMPLETED|PARTIAL|FAILED)$`, rp.theRunIsStoredAs)
	ctx.Step(`^the stored run has (\d+) phases$`, rp.theStoredRunHasPhases)
	ctx.Step(`^the stored action log is not empty$`, rp.theStoredActionLogIsNotEmpty)
	ctx.Step(`^the stored error mentions "([^"]*)"$`, rp.theStoredErrorMentions)
}
