package project

import (
	"strconv"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// DateTimeLayout formats phase dates in outputs
const DateTimeLayout = "01/02/2006 15:04"

// PhaseFailure is a phase error recorded by a ContinueOnFailure run
type PhaseFailure struct {
	Phase string
	Kind  phase.Kind
	Err   error
}

// PhaseDates are the calendar start and end of an installation phase
type PhaseDates struct {
	Start time.Time
	End   time.Time
}

// Result is everything a project run produces. Action and progress times
// are hours from the earliest installation start.
type Result struct {
	// Config is the project config with design results merged in
	Config          config.Value
	DesignResults   config.Value
	DetailedOutputs config.Value

	PhaseStarts map[string]float64
	PhaseTimes  map[string]float64
	PhaseDates  map[string]PhaseDates

	SystemCosts       map[string]float64
	InstallationCosts map[string]float64
	Categories        map[string]string

	Actions  []simulation.Action
	Progress []simulation.ProgressPoint

	Capex Capex
	// InstallationTime is the latest phase end relative to the earliest start
	InstallationTime float64
	// TotalPhaseTime sums the phase durations, counting overlaps twice
	TotalPhaseTime float64
	ProjectTime    float64
	// Finance is nil unless array, export and substation progress exists
	Finance *Finance

	Failures []PhaseFailure
	Partial  bool
}

func newResult() *Result {
	return &Result{
		DesignResults:     config.EmptyMap(),
		DetailedOutputs:   config.EmptyMap(),
		PhaseStarts:       map[string]float64{},
		PhaseTimes:        map[string]float64{},
		PhaseDates:        map[string]PhaseDates{},
		SystemCosts:       map[string]float64{},
		InstallationCosts: map[string]float64{},
		Categories:        map[string]string{},
	}
}

// Failed reports whether the named phase failed
func (r *Result) Failed(name string) bool {
	for _, f := range r.Failures {
		if f.Phase == name {
			return true
		}
	}
	return false
}

// ProjectProgress wraps the run's progress points
func (r *Result) ProjectProgress() ProjectProgress {
	return NewProjectProgress(r.Progress)
}

// Outputs renders the result as a config tree. Actions are included only
// when includeActions is set.
func (r *Result) Outputs(includeActions bool) config.Value {
	c := r.Capex
	out := map[string]config.Value{
		"design_results":                             r.DesignResults,
		"detailed_outputs":                           r.DetailedOutputs,
		"installation_time":                          config.Number(r.InstallationTime),
		"project_time":                               config.Number(r.ProjectTime),
		"total_phase_time":                           config.Number(r.TotalPhaseTime),
		"system_capex":                               config.Number(c.System),
		"system_capex_per_kw":                        config.Number(c.PerKW(c.System)),
		"installation_capex":                         config.Number(c.Installation),
		"installation_capex_per_kw":                  config.Number(c.PerKW(c.Installation)),
		"bos_capex":                                  config.Number(c.BOS()),
		"bos_capex_per_kw":                           config.Number(c.PerKW(c.BOS())),
		"turbine_capex":                              config.Number(c.Turbine),
		"turbine_capex_per_kw":                       config.Number(c.PerKW(c.Turbine)),
		"overnight_capex":                            config.Number(c.Overnight()),
		"overnight_capex_per_kw":                     config.Number(c.PerKW(c.Overnight())),
		"soft_capex":                                 config.Number(c.Soft),
		"soft_capex_per_kw":                          config.Number(c.PerKW(c.Soft)),
		"project_capex":                              config.Number(c.Project),
		"project_capex_per_kw":                       config.Number(c.PerKW(c.Project)),
		"total_capex":                                config.Number(c.Total()),
		"total_capex_per_kw":                         config.Number(c.PerKW(c.Total())),
		"capex_breakdown":                            numbers(c.Breakdown),
		"capex_breakdown_per_kw":                     numbers(c.BreakdownPerKW()),
		"soft_capex_breakdown":                       numbers(c.SoftBreakdown),
		"soft_capex_breakdown_per_kw":                numbers(c.SoftBreakdownPerKW()),
		"capex_detailed_soft_capex_breakdown":        numbers(c.DetailedBreakdown()),
		"capex_detailed_soft_capex_breakdown_per_kw": numbers(perKW(c.DetailedBreakdown(), c.PerKW)),
		"phase_starts":                               numbers(r.PhaseStarts),
		"phase_times":                                numbers(r.PhaseTimes),
		"phase_dates":                                r.datesValue(),
		"partial":                                    config.Bool(r.Partial),
	}

	if r.Finance != nil {
		out["npv"] = config.Number(r.Finance.NPV)
		out["cash_flow"] = monthly(r.Finance.CashFlow)
		out["monthly_expenses"] = monthly(r.Finance.Expenses)
		out["monthly_revenue"] = monthly(r.Finance.Revenue)
	}

	if len(r.Failures) > 0 {
		failures := map[string]config.Value{}
		for _, f := range r.Failures {
			failures[f.Phase] = config.String(f.Err.Error())
		}
		out["failures"] = config.Map(failures)
	}

	if includeActions {
		items := make([]config.Value, 0, len(r.Actions))
		for _, a := range r.Actions {
			items = append(items, actionValue(a))
		}
		out["actions"] = config.Seq(items...)
	}
	return config.Map(out)
}

func (r *Result) datesValue() config.Value {
	out := map[string]config.Value{}
	for name, d := range r.PhaseDates {
		out[name] = config.Map(map[string]config.Value{
			"start": config.String(d.Start.Format(DateTimeLayout)),
			"end":   config.String(d.End.Format(DateTimeLayout)),
		})
	}
	return config.Map(out)
}

func actionValue(a simulation.Action) config.Value {
	return config.Map(map[string]config.Value{
		"agent":    config.String(a.Agent),
		"action":   config.String(a.Action),
		"start":    config.Number(a.Start),
		"duration": config.Number(a.Duration),
		"cost":     config.Number(a.Cost),
		"level":    config.String(string(a.Level)),
		"phase":    config.String(a.Phase),
		"location": config.String(a.Location),
	})
}

func numbers(m map[string]float64) config.Value {
	out := make(map[string]config.Value, len(m))
	for k, v := range m {
		out[k] = config.Number(v)
	}
	return config.Map(out)
}

func monthly(m map[int]float64) config.Value {
	out := make(map[string]config.Value, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = config.Number(v)
	}
	return config.Map(out)
}
