package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/catalog"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
	"github.com/andrescamacho/orbit-go/test/helpers"
)

type projectContext struct {
	cfg      config.Value
	registry func() *phase.Registry
	opts     project.Options

	result  *project.Result
	results []*project.Result
	err     error
	inputs  config.Value
}

func (pc *projectContext) reset() {
	pc.cfg = config.EmptyMap().Set("port.monthly_rate", config.Number(0))
	pc.registry = helpers.TestRegistry
	pc.opts = project.Options{MaxHours: 100000}
	pc.result = nil
	pc.results = nil
	pc.err = nil
	pc.inputs = config.Value{}
}

// Given steps

func (pc *projectContext) aDredgingProjectOfHours(hours int) error {
	pc.cfg = pc.cfg.Set("dredge.hours", config.Int(hours))
	return nil
}

func (pc *projectContext) installPhases(table *messages.PickleTable) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("install phases table needs a header and at least one row")
	}
	phases := map[string]config.Value{}
	for _, row := range table.Rows[1:] {
		name := row.Cells[0].Value
		start := strings.TrimSpace(row.Cells[1].Value)
		switch {
		case strings.Contains(start, "@"):
			target, fraction, _ := strings.Cut(start, "@")
			f, err := strconv.ParseFloat(fraction, 64)
			if err != nil {
				return fmt.Errorf("bad fraction for %s: %w", name, err)
			}
			phases[name] = config.Seq(config.String(target), config.Number(f))
		case strings.Contains(start, "/"):
			phases[name] = config.String(start)
		default:
			i, err := strconv.Atoi(start)
			if err != nil {
				return fmt.Errorf("bad start for %s: %w", name, err)
			}
			phases[name] = config.Int(i)
		}
	}
	pc.cfg = pc.cfg.Set(project.KeyInstallPhases, config.Map(phases))
	return nil
}

func (pc *projectContext) theInstallPhasesRunInOrder(list string) error {
	pc.cfg = pc.cfg.Set(project.KeyInstallPhases, config.Strings(splitList(list)...))
	return nil
}

func (pc *projectContext) theDredgerWorksOnlyInWavesUpTo(height float64) error {
	pc.cfg = pc.cfg.Set("dredge.max_waveheight", config.Number(height))
	return nil
}

func (pc *projectContext) aWeatherProfileWithRoughStart(hours int, height float64, rough int) error {
	waves := make([]float64, hours)
	for i := 0; i < rough && i < hours; i++ {
		waves[i] = height
	}
	series, err := weather.NewHourlySeries(helpers.WeatherStart, map[string][]float64{
		"waveheight": waves,
		"windspeed":  make([]float64, hours),
	})
	if err != nil {
		return err
	}
	pc.opts.Weather = series
	return nil
}

func (pc *projectContext) phaseNeedsACrane(name string) error {
	pc.cfg = pc.cfg.Set(name+".dredge.needs_crane", config.Bool(true))
	return nil
}

func (pc *projectContext) failuresDoNotStopTheProject() error {
	pc.opts.ContinueOnFailure = true
	return nil
}

func (pc *projectContext) aTrenchProjectAtDepth(depth int) error {
	pc.cfg = pc.cfg.
		Set("site.depth", config.Int(depth)).
		Set(project.KeyDesignPhases, config.Strings("TrenchSizing")).
		Set(project.KeyInstallPhases, config.Map(map[string]config.Value{"Dredging": config.Int(0)}))
	return nil
}

func (pc *projectContext) aTrenchProjectWithoutASite() error {
	pc.cfg = pc.cfg.
		Set(project.KeyDesignPhases, config.Strings("TrenchSizing")).
		Set(project.KeyInstallPhases, config.Map(map[string]config.Value{"Dredging": config.Int(0)}))
	return nil
}

func (pc *projectContext) theFixedBottomReferenceProject() error {
	pc.cfg = helpers.FixedBottomProject()
	pc.registry = catalog.NewRegistry
	return nil
}

// When steps

func (pc *projectContext) iRunTheProject() error {
	pc.result, pc.err = pc.run()
	return nil
}

func (pc *projectContext) iRunTheProjectTimes(n int) error {
	for i := 0; i < n; i++ {
		res, err := pc.run()
		if err != nil {
			return fmt.Errorf("run %d failed: %w", i+1, err)
		}
		pc.results = append(pc.results, res)
	}
	return nil
}

func (pc *projectContext) run() (*project.Result, error) {
	p, err := project.New(pc.cfg, pc.registry(), pc.opts)
	if err != nil {
		return nil, err
	}
	return p.Run(context.Background())
}

func (pc *projectContext) iValidateTheProject() error {
	p, err := project.New(pc.cfg, pc.registry(), pc.opts)
	if err != nil {
		pc.err = err
		return nil
	}
	pc.err = p.Validate()
	return nil
}

func (pc *projectContext) iCompileTheInputsOf(list string) error {
	pc.inputs, pc.err = project.CompileInputDict(pc.registry(), splitList(list))
	return pc.err
}

// Then steps

func (pc *projectContext) succeeded() error {
	if pc.err != nil {
		return fmt.Errorf("expected the run to succeed, got: %w", pc.err)
	}
	if pc.result == nil {
		return fmt.Errorf("no result recorded")
	}
	return nil
}

func (pc *projectContext) theFirstActionOfStartsAtHour(name string, hour float64) error {
	if err := pc.succeeded(); err != nil {
		return err
	}
	first := math.Inf(1)
	for _, a := range pc.result.Actions {
		if a.Phase == name && a.Level == simulation.LevelAction {
			first = math.Min(first, a.Start)
		}
	}
	if math.IsInf(first, 1) {
		return fmt.Errorf("no actions logged for %s", name)
	}
	if math.Abs(first-hour) > 1e-6 {
		return fmt.Errorf("expected first action of %s at %v, got %v", name, hour, first)
	}
	return nil
}

func (pc *projectContext) theInstallationTimeIsHours(hours float64) error {
	if err := pc.succeeded(); err != nil {
		return err
	}
	if math.Abs(pc.result.InstallationTime-hours) > 1e-6 {
		return fmt.Errorf("expected installation time %v, got %v", hours, pc.result.InstallationTime)
	}
	return nil
}

func (pc *projectContext) theRunFailsWithError(kind string) error {
	if pc.err == nil {
		return fmt.Errorf("expected a %s error, the run succeeded", kind)
	}
	var matched bool
	switch kind {
	case "weather profile":
		var target *shared.WeatherProfileError
		matched = errors.As(pc.err, &target)
	case "circular dependency":
		var target *shared.CircularDependencyError
		matched = errors.As(pc.err, &target)
	case "missing inputs":
		var target *shared.MissingInputsError
		matched = errors.As(pc.err, &target)
	default:
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !matched {
		return fmt.Errorf("expected a %s error, got: %v", kind, pc.err)
	}
	return nil
}

func (pc *projectContext) theDesignResultIs(path string, want float64) error {
	if err := pc.succeeded(); err != nil {
		return err
	}
	got, err := pc.result.DesignResults.Float(path)
	if err != nil {
		return err
	}
	if math.Abs(got-want) > 1e-6 {
		return fmt.Errorf("expected design result %s = %v, got %v", path, want, got)
	}
	return nil
}

func (pc *projectContext) validationReportsMissing(path string) error {
	var missing *shared.MissingInputsError
	if !errors.As(pc.err, &missing) {
		return fmt.Errorf("expected missing inputs, got: %v", pc.err)
	}
	for _, p := range missing.Paths {
		if p == path {
			return nil
		}
	}
	return fmt.Errorf("missing inputs %v do not include %q", missing.Paths, path)
}

func (pc *projectContext) theInputsInclude(path string) error {
	if !pc.inputs.Has(path) {
		return fmt.Errorf("inputs do not include %s", path)
	}
	return nil
}

func (pc *projectContext) theInputsDoNotInclude(path string) error {
	if pc.inputs.Has(path) {
		return fmt.Errorf("inputs include %s", path)
	}
	return nil
}

func (pc *projectContext) theProjectIsPartialWithFailed(name string) error {
	if err := pc.succeeded(); err != nil {
		return err
	}
	if !pc.result.Partial {
		return fmt.Errorf("expected a partial result")
	}
	if !pc.result.Failed(name) {
		return fmt.Errorf("expected %s to be recorded as failed, failures: %v", name, pc.result.Failures)
	}
	return nil
}

func (pc *projectContext) theInstallationCapexIsUSD(want float64) error {
	if err := pc.succeeded(); err != nil {
		return err
	}
	if math.Abs(pc.result.Capex.Installation-want) > 1e-6 {
		return fmt.Errorf("expected installation capex %v, got %v", want, pc.result.Capex.Installation)
	}
	return nil
}

func (pc *projectContext) everyRunLogsTheSameActions() error {
	if len(pc.results) < 2 {
		return fmt.Errorf("need at least two runs, got %d", len(pc.results))
	}
	first := pc.results[0].Actions
	for i, res := range pc.results[1:] {
		if len(res.Actions) != len(first) {
			return fmt.Errorf("run %d logged %d actions, run 1 logged %d", i+2, len(res.Actions), len(first))
		}
		for j := range first {
			if res.Actions[j] != first[j] {
				return fmt.Errorf("run %d action %d differs: %+v vs %+v", i+2, j, res.Actions[j], first[j])
			}
		}
	}
	return nil
}

func (pc *projectContext) theCapexBreakdownSumsToTheTotalCapex() error {
	res := pc.results[len(pc.results)-1]
	var sum float64
	for _, v := range res.Capex.Breakdown {
		sum += v
	}
	total := res.Capex.Total()
	if math.Abs(sum-total) > 1e-6*math.Abs(total) {
		return fmt.Errorf("capex breakdown sums to %v, total capex is %v", sum, total)
	}
	return nil
}

func splitList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InitializeProjectScenario registers the scheduling and orchestration steps
func InitializeProjectScenario(ctx *godog.ScenarioContext) {
	pc := &projectContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a dredging project of (\d+) hours$`, pc.aDredgingProjectOfHours)
	ctx.Step(`^install phases:$`, pc.installPhases)
	ctx.Step(`^the install phases run in order "([^"]*)"$`, pc.theInstallPhasesRunInOrder)
	ctx.Step(`^the dredger works only in waves up to (\d+(?:\.\d+)?) m$`, pc.theDredgerWorksOnlyInWavesUpTo)
	ctx.Step(`^a weather profile of (\d+) hours with (\d+(?:\.\d+)?) m waves for the first (\d+) hours$`, pc.aWeatherProfileWithRoughStart)
	ctx.Step(`^"([^"]*)" needs a crane$`, pc.phaseNeedsACrane)
	ctx.Step(`^failures do not stop the project$`, pc.failuresDoNotStopTheProject)
	ctx.Step(`^a trench project at (\d+) m depth$`, pc.aTrenchProjectAtDepth)
	ctx.Step(`^a trench project without a site$`, pc.aTrenchProjectWithoutASite)
	ctx.Step(`^the fixed-bottom reference project$`, pc.theFixedBottomReferenceProject)

	// When steps
	ctx.Step(`^I run the project$`, pc.iRunTheProject)
	ctx.Step(`^I run the project (\d+) times$`, pc.iRunTheProjectTimes)
	ctx.Step(`^I validate the project$`, pc.iValidateTheProject)
	ctx.Step(`^I compile the inputs of "([^"]*)"$`, pc.iCompileTheInputsOf)

	// Then steps
	ctx.Step(`^the first action of "([^"]*)" starts at hour (\d+(?:\.\d+)?)$`, pc.theFirstActionOfStartsAtHour)
	ctx.Step(`^the installation time is (\d+(?:\.\d+)?) hours$`, pc.theInstallationTimeIsHours)
	ctx.Step(`^the run fails with a (weather profile|circular dependency|missing inputs) error$`, pc.theRunFailsWithError)
	ctx.Step(`^the design result "([^"]*)" is (\d+(?:\.\d+)?)$`, pc.theDesignResultIs)
	ctx.Step(`^validation reports missing "([^"]*)"$`, pc.validationReportsMissing)
	ctx.Step(`^the inputs include "([^"]*)"$`, pc.theInputsInclude)
	ctx.Step(`^the inputs do not include "([^"]*)"$`, pc.theInputsDoNotInclude)
	ctx.Step(`^the project is partial with "([^"]*)" failed$`, pc.theProjectIsPartialWithFailed)
	ctx.Step(`^the installation capex is (\d+(?:\.\d+)?) USD$`, pc.theInstallationCapexIsUSD)
	ctx.Step(`^every run logs the same actions$`, pc.everyRunLogsTheSameActions)
	ctx.Step(`^the capex breakdown sums to the total capex$`, pc.theCapexBreakdownSumsToTheTotalCapex)
}
