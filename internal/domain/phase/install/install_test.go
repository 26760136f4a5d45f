package install_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/install"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

func projectConfig(extra map[string]interface{}) config.Value {
	base := config.MustFromAny(map[string]interface{}{
		"wtiv":                        "example_wtiv",
		"spi_vessel":                  "example_scour_protection_vessel",
		"oss_install_vessel":          "example_heavy_lift_vessel",
		"array_cable_install_vessel":  "example_cable_lay_vessel",
		"export_cable_install_vessel": "example_cable_lay_vessel",
		"site":                        map[string]interface{}{
			"depth":                30,
			"distance":             40,
			"distance_to_landfall": 30,
		},
		"plant":            map[string]interface{}{"num_turbines": 3},
		"monopile":         map[string]interface{}{"length": 80, "mass": 700, "deck_space": 300, "unit_cost": 2e6},
		"transition_piece": map[string]interface{}{"mass": 300, "deck_space": 100, "unit_cost": 1e6},
		"turbine":          map[string]interface{}{
			"hub_height": 120,
			"tower":      map[string]interface{}{"mass": 400, "deck_space": 100},
			"nacelle":    map[string]interface{}{"mass": 500, "deck_space": 200},
			"blade":      map[string]interface{}{"mass": 50, "deck_space": 100},
		},
		"scour_protection":                 map[string]interface{}{"tonnes_per_substructure": 2000, "cost_per_tonne": 40},
		"offshore_substation_topside":      map[string]interface{}{"mass": 3000, "deck_space": 1, "unit_cost": 1e8},
		"offshore_substation_substructure": map[string]interface{}{
			"mass": 1500, "length": 40, "deck_space": 1, "unit_cost": 5e6,
		},
		"array_system": map[string]interface{}{
			"sections":    []interface{}{[]interface{}{2.0, 1.5, 1.5}, []interface{}{2.0, 1.5}},
			"cable":       map[string]interface{}{"linear_density": 40},
			"system_cost": 3e7,
		},
		"export_system": map[string]interface{}{
			"sections":    []interface{}{[]interface{}{100.0}},
			"cable":       map[string]interface{}{"linear_density": 90},
			"system_cost": 1e8,
		},
	})
	return config.Merge(base, config.MustFromAny(extra))
}

func run(t *testing.T, factory phase.InstallFactory, cfg config.Value, opts phase.Options) phase.Install {
	t.Helper()
	p, err := factory(cfg, opts)
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))
	return p
}

func count(actions []simulation.Action, agent, name string) int {
	n := 0
	for _, a := range actions {
		if (agent == "" || a.Agent == agent) && a.Action == name {
			n++
		}
	}
	return n
}

func labels(points []simulation.ProgressPoint, label string) int {
	n := 0
	for _, p := range points {
		if p.Label == label {
			n++
		}
	}
	return n
}

func TestMonopile_SoloWTIV(t *testing.T) {
	// Act
	p := run(t, install.NewMonopile, projectConfig(nil), phase.Options{})

	// Assert
	actions := p.Actions()
	assert.Equal(t, 3, labels(p.Progress(), "Substructure"))
	assert.Equal(t, 1, count(actions, "WTIV", simulation.MobilizeAction))
	assert.Equal(t, 3, count(actions, "WTIV", "Drive Monopile"))
	assert.Equal(t, 3, count(actions, "WTIV", "Jackup"))
	assert.Equal(t, 3, count(actions, "WTIV", "Bolt Transition Piece"))

	system, err := p.SystemCapex()
	require.NoError(t, err)
	assert.Equal(t, 9e6, system)

	total, err := p.TotalPhaseTime()
	require.NoError(t, err)
	assert.InDelta(t, simulation.Span(actions), total, 1e-9)
}

func TestMonopile_GroutedConnection(t *testing.T) {
	cfg := projectConfig(map[string]interface{}{"transition_piece": map[string]interface{}{"connection": "grouted"}})

	p := run(t, install.NewMonopile, cfg, phase.Options{})

	assert.Equal(t, 3, count(p.Actions(), "WTIV", "Cure Grout"))
	assert.Zero(t, count(p.Actions(), "WTIV", "Bolt Transition Piece"))
}

func TestMonopile_FeedersSupplyWTIVOnSite(t *testing.T) {
	cfg := projectConfig(map[string]interface{}{"feeder": "example_feeder", "num_feeders": 2})

	p := run(t, install.NewMonopile, cfg, phase.Options{})

	actions := p.Actions()
	assert.Equal(t, 3, labels(p.Progress(), "Substructure"))
	// the WTIV sails out once and back once
	assert.Equal(t, 2, count(actions, "WTIV", "Transit"))
	assert.Zero(t, count(actions, "WTIV", "Fasten Monopile"))
	assert.Equal(t, 3, count(actions, "", "Fasten Monopile"))

	detailed, err := p.DetailedOutput()
	require.NoError(t, err)
	assert.Equal(t, 2, detailed.IntOr("num_feeders", 0))
	assert.True(t, detailed.Has("vessel_utilization.Feeder 1.trips"))
}

func TestMonopile_WTIVWithoutCrane(t *testing.T) {
	cfg := projectConfig(map[string]interface{}{"wtiv": "example_cable_lay_vessel"})

	_, err := install.NewMonopile(cfg, phase.Options{})

	var missing *shared.MissingComponentError
	assert.ErrorAs(t, err, &missing)
}

func TestMonopile_ComponentTooLargeForFeeder(t *testing.T) {
	cfg := projectConfig(map[string]interface{}{
		"feeder":      "example_feeder",
		"num_feeders": 1,
		"monopile":    map[string]interface{}{"mass": 1500},
	})
	p, err := install.NewMonopile(cfg, phase.Options{})
	require.NoError(t, err)

	var capacity *shared.VesselCapacityError
	assert.ErrorAs(t, p.Run(context.Background()), &capacity)
}

func TestMonopile_WeatherDelaysAndExhaustion(t *testing.T) {
	rough := make([]float64, 24*365)
	for i := range rough {
		rough[i] = 1
		if i >= 200 && i < 248 {
			rough[i] = 4
		}
	}
	series, err := weather.NewHourlySeries(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), map[string][]float64{"waveheight": rough})
	require.NoError(t, err)

	p := run(t, install.NewMonopile, projectConfig(nil), phase.Options{Weather: series.Slice(0)})
	assert.Positive(t, count(p.Actions(), "WTIV", simulation.DelayAction))

	short, err := weather.NewHourlySeries(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), map[string][]float64{"waveheight": rough[:200]})
	require.NoError(t, err)
	p2, err := install.NewMonopile(projectConfig(nil), phase.Options{Weather: short.Slice(0)})
	require.NoError(t, err)
	var exhausted *shared.WeatherProfileExhaustedError
	assert.ErrorAs(t, p2.Run(context.Background()), &exhausted)
}

func TestTurbine_InstallsEveryComponent(t *testing.T) {
	p := run(t, install.NewTurbine, projectConfig(nil), phase.Options{})

	actions := p.Actions()
	assert.Equal(t, 3, labels(p.Progress(), "Turbine"))
	assert.Equal(t, 9, count(actions, "WTIV", "Attach Blade"))
	assert.Equal(t, 3, count(actions, "WTIV", "Lift Nacelle"))

	system, err := p.SystemCapex()
	require.NoError(t, err)
	assert.Zero(t, system)
}

func TestScourProtection_TripsLimitedByCargo(t *testing.T) {
	p := run(t, install.NewScourProtection, projectConfig(nil), phase.Options{})

	actions := p.Actions()
	// 10000 t capacity carries five 2000 t drops per trip
	assert.Equal(t, 3, count(actions, "SPI Vessel", "Drop SP Material"))
	assert.Equal(t, 2, count(actions, "SPI Vessel", "Transit"))
	system, _ := p.SystemCapex()
	assert.Equal(t, 3*2000*40.0, system)
}

func TestArrayCable_LayAndBurySinglePass(t *testing.T) {
	p := run(t, install.NewArrayCable, projectConfig(nil), phase.Options{})

	actions := p.Actions()
	assert.Equal(t, 2, labels(p.Progress(), "Array String"))
	assert.Equal(t, 5, count(actions, "Array Cable Lay Vessel", "Lay/Bury Cable"))
	system, _ := p.SystemCapex()
	assert.Equal(t, 3e7, system)
}

func TestArrayCable_SeparateBurialFollowsLay(t *testing.T) {
	cfg := projectConfig(map[string]interface{}{"array_cable_bury_vessel": "example_cable_lay_vessel"})

	p := run(t, install.NewArrayCable, cfg, phase.Options{})

	actions := p.Actions()
	var lays, buries []simulation.Action
	for _, a := range actions {
		switch {
		case a.Agent == "Array Cable Lay Vessel" && a.Action == "Lay Cable":
			lays = append(lays, a)
		case a.Agent == "Array Cable Bury Vessel" && a.Action == "Bury Cable":
			buries = append(buries, a)
		}
	}
	require.Len(t, lays, 5)
	require.Len(t, buries, 5)
	for i := range lays {
		assert.GreaterOrEqual(t, buries[i].Start, lays[i].End())
	}
}

func TestExportCable_SplicesHeavyCable(t *testing.T) {
	p := run(t, install.NewExportCable, projectConfig(nil), phase.Options{})

	actions := p.Actions()
	// 100 km at 90 t/km on a 4000 t carousel needs three pieces
	assert.Equal(t, 2, count(actions, "Export Cable Lay Vessel", "Splice Cable"))
	assert.Equal(t, 3, count(actions, "Export Cable Lay Vessel", "Lay/Bury Cable"))
	assert.Equal(t, 1, labels(p.Progress(), "Export System"))

	detailed, err := p.DetailedOutput()
	require.NoError(t, err)
	assert.Equal(t, 2, detailed.IntOr("num_splices", 0))
}

func TestOffshoreSubstation_HeavyLift(t *testing.T) {
	p := run(t, install.NewOffshoreSubstation, projectConfig(nil), phase.Options{})

	actions := p.Actions()
	assert.Equal(t, 1, labels(p.Progress(), "Offshore Substation"))
	assert.Equal(t, 1, count(actions, "Heavy Lift Vessel", "Attach Topside"))
	// dynamic positioning replaces jacking
	assert.Zero(t, count(actions, "Heavy Lift Vessel", "Jackup"))
	system, _ := p.SystemCapex()
	assert.Equal(t, 1.05e8, system)
}

func mooringConfig(extra map[string]interface{}) config.Value {
	return config.Merge(projectConfig(map[string]interface{}{
		"mooring_install_vessel": "example_support_vessel",
		"mooring_system": map[string]interface{}{
			"num_lines":   3,
			"line_mass":   40,
			"anchor_mass": 50,
			"anchor_type": "Suction Pile",
			"system_cost": 6e7,
		},
	}), config.MustFromAny(extra))
}

func TestMooringSystem_InstallsEveryLine(t *testing.T) {
	// Arrange: 270 t per system, the support vessel carries all three at once
	cfg := mooringConfig(nil)

	// Act
	p := run(t, install.NewMooringSystem, cfg, phase.Options{})

	// Assert
	actions := p.Actions()
	agent := "Mooring System Installation Vessel"
	assert.Equal(t, 3, count(actions, agent, "Load Mooring System"))
	assert.Equal(t, 9, count(actions, agent, "Perform Mooring Site Survey"))
	assert.Equal(t, 9, count(actions, agent, "Install Mooring Line"))
	assert.Equal(t, 2, count(actions, agent, "Transit"))
	assert.Equal(t, 3, labels(p.Progress(), "Mooring System"))
	for _, a := range actions {
		if a.Action == "Install Suction Pile Anchor" {
			assert.InDelta(t, 11+0.005*30, a.Duration, 1e-9)
		}
	}
	assert.Equal(t, 9, count(actions, agent, "Install Suction Pile Anchor"))
	system, err := p.SystemCapex()
	require.NoError(t, err)
	assert.Equal(t, 6e7, system)
}

func TestMooringSystem_DragEmbedmentAnchors(t *testing.T) {
	cfg := mooringConfig(map[string]interface{}{"mooring_system": map[string]interface{}{"anchor_type": "Drag Embedment"}})

	p := run(t, install.NewMooringSystem, cfg, phase.Options{})

	assert.Equal(t, 9, count(p.Actions(), "", "Install Drag Embedment Anchor"))
	assert.Zero(t, count(p.Actions(), "", "Install Suction Pile Anchor"))
}

func TestMooringSystem_RejectsUnsupportedSetup(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]interface{}
	}{
		{"installation method", map[string]interface{}{"mooring_system_design": map[string]interface{}{"installation_method": "sequential"}}},
		{"anchor type", map[string]interface{}{"mooring_system": map[string]interface{}{"anchor_type": "Screw Pile"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := install.NewMooringSystem(mooringConfig(tt.extra), phase.Options{})

			var cfgErr *shared.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestInstallations_AreDeterministic(t *testing.T) {
	cfg := projectConfig(map[string]interface{}{"feeder": "example_feeder", "num_feeders": 2})
	first := run(t, install.NewMonopile, cfg, phase.Options{}).Actions()

	for i := 0; i < 20; i++ {
		assert.Equal(t, first, run(t, install.NewMonopile, cfg, phase.Options{}).Actions())
	}
}

func TestRegistrations_SchemasCoverPort(t *testing.T) {
	for _, reg := range install.Registrations() {
		_, ok := reg.Expected["port.num_cranes"]
		assert.True(t, ok, reg.Name)
	}
}
