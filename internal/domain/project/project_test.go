package project_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

func TestRun_DependentStartsAtFractionOfTarget(t *testing.T) {
	// Arrange
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": 0,
			"Job_B": []interface{}{"Job_A", 0.5},
		},
		"Job_A": hours(1000),
		"Job_B": hours(10),
	})

	// Act
	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	// Assert
	require.NoError(t, err)
	work := actionsOf(res.Actions, "Job_B", "Work")
	require.Len(t, work, 1)
	assert.Equal(t, 500.0, work[0].Start)
	assert.Equal(t, 500.0, res.PhaseStarts["Job_B"])
	assert.Equal(t, 1000.0, res.ProjectTime)
}

func TestRun_DependentOffsetInHours(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": 0,
			"Job_B": []interface{}{"Job_A", "days=1;hours=6"},
		},
		"Job_A": hours(10),
		"Job_B": hours(10),
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	require.NoError(t, err)
	assert.Equal(t, 30.0, actionsOf(res.Actions, "Job_B", "Work")[0].Start)
}

func TestRun_SerialListRunsBackToBack(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": []interface{}{"Job_A", "Job_B"},
		"Job_A":          hours(10),
		"Job_B":          hours(5),
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	require.NoError(t, err)
	assert.Equal(t, 10.0, actionsOf(res.Actions, "Job_B", "Work")[0].Start)
	assert.Equal(t, 15.0, res.InstallationTime)
	assert.Equal(t, "01/01/2010 10:00", res.PhaseDates["Job_B"].Start.Format(project.DateTimeLayout))
}

func TestRun_InstallationTimeIsLatestPhaseEnd(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": 0,
			"Job_B": []interface{}{"Job_A", 0.5},
		},
		"Job_A": hours(1000),
		"Job_B": hours(1000),
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	require.NoError(t, err)
	assert.Equal(t, 1500.0, res.InstallationTime)
	assert.Equal(t, 2000.0, res.TotalPhaseTime)
	assert.Equal(t, res.ProjectTime, res.InstallationTime)
	out := res.Outputs(false)
	assert.Equal(t, 1500.0, out.FloatOr("installation_time", 0))
	assert.Equal(t, 2000.0, out.FloatOr("total_phase_time", 0))
}

func TestRun_FractionalStartAlignsWithWeatherHour(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": 0,
			"Job_B": []interface{}{"Job_A", 0.5},
		},
		"Job_A": hours(1001),
		"Job_B": hours(10),
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{Weather: calmSeries(t, 3000)})

	require.NoError(t, err)
	assert.Equal(t, 501.0, res.PhaseStarts["Job_B"])
	work := actionsOf(res.Actions, "Job_B", "Work")
	require.Len(t, work, 1)
	assert.Equal(t, 501.0, work[0].Start)
	assert.Equal(t, 1001.0, res.InstallationTime)
}

func TestRun_StartDateOutsideWeatherFailsBeforeSimulation(t *testing.T) {
	constructed := 0
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": "01/01/2010",
			"Job_B": "06/01/2012",
		},
		"job": map[string]interface{}{"hours": 5},
	})
	p, err := project.New(cfg, testRegistry(&constructed), project.Options{Weather: calmSeries(t, 200)})
	require.NoError(t, err)

	_, err = p.Run(context.Background())

	var profileErr *shared.WeatherProfileError
	require.ErrorAs(t, err, &profileErr)
	assert.Equal(t, 0, constructed)
}

func TestRun_DateStartsIndexTheWeather(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": "01/01/2010",
			"Job_B": "01/02/2010 02:00",
		},
		"job": map[string]interface{}{"hours": 5},
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{Weather: calmSeries(t, 200)})

	require.NoError(t, err)
	assert.Equal(t, 26.0, res.PhaseStarts["Job_B"])
}

func TestRun_CapexBreakdownSumsToTotal(t *testing.T) {
	// Arrange
	cfg := mustConfig(t, map[string]interface{}{
		"plant":          map[string]interface{}{"num_turbines": 10},
		"turbine":        map[string]interface{}{"turbine_rating": 8},
		"site":           map[string]interface{}{"depth": 20},
		"design_phases":  []interface{}{"Sizer"},
		"install_phases": []interface{}{"Job_A", "Job_B"},
		"Job_A":          map[string]interface{}{"job": map[string]interface{}{"hours": 100, "system_cost": 5e6}},
		"Job_B":          hours(50),
		"port":           map[string]interface{}{"monthly_rate": 730},
	})

	// Act
	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	// Assert
	require.NoError(t, err)
	c := res.Capex
	sum := 0.0
	for _, v := range c.Breakdown {
		sum += v
	}
	assert.InDelta(t, c.Total(), sum, 1e-6*c.Total())
	assert.InDelta(t, 100*100+100+50*100+50, c.Installation, 1e-6)
	assert.Equal(t, 5e6, c.System)
	assert.Equal(t, 1300*10*8*1000.0, c.Turbine)
	assert.Contains(t, c.Breakdown, "Lifting Installation")
	assert.Equal(t, 80.0, res.Config.FloatOr("plant.capacity", 0))
	assert.InDelta(t, c.Total()/80000, c.PerKW(c.Total()), 1e-9)
}

func TestRun_DesignCostCountsOnlyWithoutMatchingInstallation(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"site":          map[string]interface{}{"depth": 20},
		"design_phases": []interface{}{"Sizer"},
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	require.NoError(t, err)
	assert.Equal(t, 5.0, res.SystemCosts["Sizer"])
	assert.Equal(t, 5.0, res.Capex.Breakdown["Lifting"])
}

func TestRun_ContinueOnFailureRecordsFailureAndKeepsOthers(t *testing.T) {
	// Arrange
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": []interface{}{"Job_A", "Job_B", "Job_C"},
		"job":            map[string]interface{}{"hours": 10, "system_cost": 1000},
		"Job_B":          map[string]interface{}{"job": map[string]interface{}{"broken": true}},
	})

	// Act
	res, err := runProject(t, testRegistry(nil), cfg, project.Options{ContinueOnFailure: true})

	// Assert
	require.NoError(t, err)
	assert.True(t, res.Partial)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "Job_B", res.Failures[0].Phase)
	var missing *shared.MissingComponentError
	assert.ErrorAs(t, res.Failures[0].Err, &missing)
	assert.Equal(t, 2000.0, res.Capex.System)
	assert.ElementsMatch(t, []string{"Job_A", "Job_C"}, keys(res.SystemCosts))
	assert.Equal(t, 10.0, actionsOf(res.Actions, "Job_C", "Work")[0].Start)
}

func TestRun_FailureAbortsWithoutContinueOnFailure(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": []interface{}{"Job_A", "Job_B"},
		"job":            map[string]interface{}{"hours": 10},
		"Job_A":          map[string]interface{}{"job": map[string]interface{}{"broken": true}},
	})

	_, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	var execErr *shared.PhaseExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "Job_A", execErr.Phase)
}

func TestRun_DependentsOfFailedPhaseAreFailed(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": 0,
			"Job_B": []interface{}{"Job_A", 1.0},
			"Job_C": 0,
		},
		"job":   map[string]interface{}{"hours": 10},
		"Job_A": map[string]interface{}{"job": map[string]interface{}{"broken": true}},
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{ContinueOnFailure: true})

	require.NoError(t, err)
	assert.True(t, res.Failed("Job_A"))
	assert.True(t, res.Failed("Job_B"))
	assert.False(t, res.Failed("Job_C"))
}

func TestRun_SharedPortChargedOnceOverSpan(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": map[string]interface{}{
			"Job_A": 0,
			"Job_B": []interface{}{"Job_A", "hours=20"},
		},
		"job":  map[string]interface{}{"hours": 10},
		"port": map[string]interface{}{"name": "Esbjerg", "shared": true, "monthly_rate": 730},
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	require.NoError(t, err)
	assert.InDelta(t, 1000+10+10, res.InstallationCosts["Job_A"], 1e-9)
	assert.InDelta(t, 1000+10, res.InstallationCosts["Job_B"], 1e-9)
	assert.InDelta(t, 2000+30, res.Capex.Installation, 1e-9)
}

func TestRun_DesignsRunBeforeTheirConsumers(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"site":          map[string]interface{}{"depth": 20},
		"design_phases": []interface{}{"Checker", "Sizer"},
	})

	res, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	require.NoError(t, err)
	assert.Equal(t, 50.0, res.DesignResults.FloatOr("pile.length", 0))
	assert.Equal(t, 51.0, res.DesignResults.FloatOr("pile.checked", 0))
}

func TestRun_DesignCycleIsReported(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"design_phases": []interface{}{"LoopA", "LoopB"},
	})

	_, err := runProject(t, testRegistry(nil), cfg, project.Options{})

	var cycle *shared.CircularDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, cycle.Cycle[0], cycle.Cycle[len(cycle.Cycle)-1])
}

func TestRun_MergePolicies(t *testing.T) {
	base := map[string]interface{}{
		"site":          map[string]interface{}{"depth": 20},
		"design_phases": []interface{}{"Sizer", "Resizer"},
	}

	first, err := runProject(t, testRegistry(nil), mustConfig(t, base), project.Options{})
	require.NoError(t, err)
	last, err := runProject(t, testRegistry(nil), mustConfig(t, base), project.Options{MergePolicy: project.LastProducerWins})
	require.NoError(t, err)

	explicit := mustConfig(t, base).Set("pile.length", config.Number(7))
	user, err := runProject(t, testRegistry(nil), explicit, project.Options{MergePolicy: project.LastProducerWins})
	require.NoError(t, err)

	assert.Equal(t, 50.0, first.Config.FloatOr("pile.length", 0))
	assert.Equal(t, 70.0, last.Config.FloatOr("pile.length", 0))
	assert.Equal(t, 7.0, user.Config.FloatOr("pile.length", 0))
}

func TestRun_CancelledContextStopsBetweenPhases(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": []interface{}{"Job_A"},
		"job":            map[string]interface{}{"hours": 10},
	})
	p, err := project.New(cfg, testRegistry(nil), project.Options{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_UnknownPhasesAreReported(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"design_phases":  []interface{}{"Nope"},
		"install_phases": []interface{}{"AlsoNope"},
	})

	_, err := project.New(cfg, testRegistry(nil), project.Options{})

	var notFound *shared.PhaseNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Name, "Nope")
	assert.Contains(t, notFound.Name, "AlsoNope")
}

func TestNew_PhaseListedUnderWrongKind(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{"install_phases": []interface{}{"Sizer"}})

	_, err := project.New(cfg, testRegistry(nil), project.Options{})

	var cfgErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestPhaseConfig_NamespaceDoesNotLeak(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"install_phases": []interface{}{"Job_A", "Job_B"},
		"site":           map[string]interface{}{"distance": 40},
		"Job_A":          map[string]interface{}{"site": map[string]interface{}{"distance": 80}},
	})
	p, err := project.New(cfg, testRegistry(nil), project.Options{})
	require.NoError(t, err)

	assert.Equal(t, 80.0, p.PhaseConfig("Job_A").FloatOr("site.distance", 0))
	assert.Equal(t, 40.0, p.PhaseConfig("Job_B").FloatOr("site.distance", 0))
	assert.False(t, p.PhaseConfig("Job_B").Has("Job_A"))
}

func TestResolveCapacity(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]interface{}
		path    string
		want    float64
		wantErr bool
	}{
		{"num from capacity", map[string]interface{}{"plant": map[string]interface{}{"capacity": 600}, "turbine": map[string]interface{}{"turbine_rating": 14}}, project.PathNumTurbines, 43, false},
		{"rating from capacity", map[string]interface{}{"plant": map[string]interface{}{"capacity": 600, "num_turbines": 50}}, project.PathTurbineRating, 12, false},
		{"capacity from both", map[string]interface{}{"plant": map[string]interface{}{"num_turbines": 50}, "turbine": map[string]interface{}{"turbine_rating": 12}}, project.PathCapacity, 600, false},
		{"mismatch", map[string]interface{}{"plant": map[string]interface{}{"capacity": 500, "num_turbines": 50}, "turbine": map[string]interface{}{"turbine_rating": 12}}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := project.ResolveCapacity(mustConfig(t, tt.in))
			if tt.wantErr {
				var cfgErr *shared.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, out.FloatOr(tt.path, math.NaN()), 1e-9)
		})
	}
}

func TestCompileInputDict_DropsDesignOutputs(t *testing.T) {
	out, err := project.CompileInputDict(testRegistry(nil), []string{"Sizer", "Checker", "Job"})

	require.NoError(t, err)
	assert.True(t, out.Has("site.depth"))
	assert.True(t, out.Has("job.hours"))
	assert.False(t, out.Has("pile.length"))
	assert.False(t, out.Has("pile.checked"))
	assert.True(t, out.Has("project_parameters.turbine_capex"))
	designs, _ := out.Get("design_phases")
	assert.Equal(t, 2, designs.Len())
}

func TestCompileInputDict_UnknownPhase(t *testing.T) {
	_, err := project.CompileInputDict(testRegistry(nil), []string{"Job", "Missing"})

	var notFound *shared.PhaseNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func keys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestValidate_ReportsMissingInputsPerPhase(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"design_phases":  []interface{}{"Sizer", "Checker"},
		"install_phases": []interface{}{"Job_A"},
	})
	p, err := project.New(cfg, testRegistry(nil), project.Options{})
	require.NoError(t, err)

	err = p.Validate()

	var missing *shared.MissingInputsError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"Sizer: site.depth", "Job_A: job.hours"}, missing.Paths)
}

func TestValidate_AcceptsCompleteProject(t *testing.T) {
	cfg := mustConfig(t, map[string]interface{}{
		"site":           map[string]interface{}{"depth": 20},
		"design_phases":  []interface{}{"Sizer", "Checker"},
		"install_phases": []interface{}{"Job_A"},
		"Job_A":          hours(5),
	})
	p, err := project.New(cfg, testRegistry(nil), project.Options{})
	require.NoError(t, err)

	assert.NoError(t, p.Validate())
}
