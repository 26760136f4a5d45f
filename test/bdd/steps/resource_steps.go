package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

type resourceContext struct {
	env   *simulation.Environment
	crane *simulation.Resource
	err   error
}

func (rc *resourceContext) reset() {
	rc.env = simulation.NewEnvironment("port", nil)
	rc.crane = nil
	rc.err = nil
}

func (rc *resourceContext) aPortCraneOfCapacity(capacity int) error {
	rc.crane = simulation.NewResource("crane", capacity)
	return nil
}

func (rc *resourceContext) agentsEachLiftingWithTheCraneFor(names string, hours float64) error {
	if rc.crane == nil {
		return fmt.Errorf("no crane defined")
	}
	for _, name := range splitList(names) {
		agent := simulation.NewAgent(name, 24)
		agent.Then(rc.crane.Hold(simulation.Task("Lift", hours))...)
		rc.env.Register(agent)
	}
	return nil
}

func (rc *resourceContext) theSimulationRuns() error {
	rc.err = rc.env.Run(0)
	return rc.err
}

func (rc *resourceContext) startsLiftingAtHour(agent string, hour float64) error {
	for _, a := range rc.env.Actions() {
		if a.Agent == agent && a.Action == "Lift" {
			if math.Abs(a.Start-hour) > 1e-9 {
				return fmt.Errorf("%s started lifting at %v, expected %v", agent, a.Start, hour)
			}
			return nil
		}
	}
	return fmt.Errorf("%s never lifted", agent)
}

// InitializeResourceScenario registers the shared resource steps
func InitializeResourceScenario(ctx *godog.ScenarioContext) {
	rc := &resourceContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	ctx.Step(`^a port crane of capacity (\d+)$`, rc.aPortCraneOfCapacity)
	ctx.Step(`^agents "([^"]*)" each lifting with the crane for (\d+(?:\.\d+)?) hours$`, rc.agentsEachLiftingWithTheCraneFor)
	ctx.Step(`^the simulation runs$`, rc.theSimulationRuns)
	ctx.Step(`^"([^"]*)" starts lifting at hour (\d+(?:\.\d+)?)$`, rc.startsLiftingAtHour)
}
