package design_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/design"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

func baseConfig() config.Value {
	return config.MustFromAny(map[string]interface{}{
		"site": map[string]interface{}{
			"depth":                30,
			"distance":             40,
			"distance_to_landfall": 50,
		},
		"plant": map[string]interface{}{
			"num_turbines": 50,
			"capacity":     600,
		},
		"turbine": map[string]interface{}{
			"turbine_rating": 12,
			"rotor_diameter": 220,
			"hub_height":     140,
		},
		"monopile":      map[string]interface{}{"diameter": 12.2},
		"export_system": map[string]interface{}{"num_cables": 2},
	})
}

func registration(t *testing.T, name string) phase.Registration {
	t.Helper()
	for _, reg := range design.Registrations() {
		if reg.Name == name {
			return reg
		}
	}
	t.Fatalf("no registration %s", name)
	return phase.Registration{}
}

func TestDesigns_ProduceEveryDeclaredOutput(t *testing.T) {
	for _, reg := range design.Registrations() {
		t.Run(reg.Name, func(t *testing.T) {
			// Arrange
			d, err := reg.NewDesign(baseConfig(), phase.Options{})
			require.NoError(t, err)

			// Act
			require.NoError(t, d.Run())

			// Assert
			result, err := d.DesignResult()
			require.NoError(t, err)
			for _, path := range reg.Output.Paths() {
				assert.True(t, result.Has(path), "missing output %s", path)
			}
			for _, path := range result.Leaves() {
				assert.True(t, reg.Output.Produces(path), "undeclared output %s", path)
			}
			cost, err := d.TotalCost()
			require.NoError(t, err)
			assert.Greater(t, cost, 0.0)
		})
	}
}

func TestDesigns_ReportAllMissingInputs(t *testing.T) {
	reg := registration(t, "MonopileDesign")

	_, err := reg.NewDesign(config.EmptyMap().Set("site.depth", config.Int(30)), phase.Options{})

	var missing *shared.MissingInputsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"plant.num_turbines", "turbine.hub_height", "turbine.rotor_diameter"}, missing.Paths)
}

func TestMonopile_Sizing(t *testing.T) {
	d, err := design.NewMonopile(baseConfig(), phase.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Run())

	result, _ := d.DesignResult()
	diameter := result.FloatOr("monopile.diameter", 0)
	assert.InDelta(t, 12.2, diameter, 1e-9)
	assert.InDelta(t, 30+3.5*12.2+5, result.FloatOr("monopile.length", 0), 1e-9)
}

func TestScourProtection_Tonnage(t *testing.T) {
	d, err := design.NewScourProtection(baseConfig(), phase.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Run())

	s := 1.3 * 12.2
	r := 12.2/2 + s/math.Tan(33.5*math.Pi/180)
	expected := 2600 * math.Pi * r * r * s / 1000

	result, _ := d.DesignResult()
	assert.InDelta(t, expected, result.FloatOr("scour_protection.tonnes_per_substructure", 0), 1e-6)
	cost, _ := d.TotalCost()
	assert.InDelta(t, expected*40*50, cost, 1e-3)
}

func TestArraySystem_StringsCoverEveryTurbine(t *testing.T) {
	d, err := design.NewArraySystem(baseConfig(), phase.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Run())

	result, _ := d.DesignResult()
	strings, _ := result.Get("array_system.sections")
	sections := 0
	for _, s := range strings.Items() {
		sections += s.Len()
	}
	assert.Equal(t, 50, sections)
	assert.Equal(t, strings.Len(), result.IntOr("array_system.num_strings", 0))
}

func TestArraySystem_CableTooSmall(t *testing.T) {
	cfg := baseConfig().Set("turbine.turbine_rating", config.Int(500))
	d, err := design.NewArraySystem(cfg, phase.Options{})
	require.NoError(t, err)

	var cfgErr *shared.ConfigurationError
	assert.ErrorAs(t, d.Run(), &cfgErr)
}

func TestExportSystem_UnknownCable(t *testing.T) {
	cfg := baseConfig().Set("export_system_design.cables", config.String("not_a_cable"))
	d, err := design.NewExportSystem(cfg, phase.Options{})
	require.NoError(t, err)

	var cfgErr *shared.ConfigurationError
	assert.ErrorAs(t, d.Run(), &cfgErr)
}

func TestExportSystem_CableCount(t *testing.T) {
	d, err := design.NewExportSystem(baseConfig(), phase.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Run())

	result, _ := d.DesignResult()
	power := math.Sqrt(3) * 220 * 900 * 0.95 / 1000 * (1 - 0.02)
	assert.Equal(t, int(math.Ceil(600/power)), result.IntOr("export_system.num_cables", 0))
	assert.InDelta(t, (50+0.03)*1.1+3, result.FloatOr("export_system.cable_length", 0), 1e-9)
}

func TestMooringSystem_SuctionPileSizing(t *testing.T) {
	// Arrange
	d, err := design.NewMooringSystem(baseConfig(), phase.Options{})
	require.NoError(t, err)

	// Act
	require.NoError(t, d.Run())

	// Assert: a 12 MW turbine takes the 150 mm chain
	result, err := d.DesignResult()
	require.NoError(t, err)
	load := 419449*0.15*0.15 + 93415*0.15 - 3577.9
	length := 0.0002*30*30 + 1.264*30 + 47.776
	anchorCost := math.Sqrt(load/9.81/1250) * 150000
	assert.Equal(t, 4, result.IntOr("mooring_system.num_lines", 0))
	assert.InDelta(t, 0.15, result.FloatOr("mooring_system.line_diam", 0), 1e-12)
	assert.InDelta(t, length, result.FloatOr("mooring_system.line_length", 0), 1e-9)
	assert.InDelta(t, length*0.45, result.FloatOr("mooring_system.line_mass", 0), 1e-9)
	assert.Equal(t, design.AnchorSuctionPile, result.StrOr("mooring_system.anchor_type", ""))
	assert.InDelta(t, 50.0, result.FloatOr("mooring_system.anchor_mass", 0), 1e-12)
	assert.InDelta(t, anchorCost, result.FloatOr("mooring_system.anchor_cost", 0), 1e-6)

	cost, err := d.TotalCost()
	require.NoError(t, err)
	assert.InDelta(t, 4*50*(anchorCost+length*1088), cost, 1e-3)
	assert.InDelta(t, cost, result.FloatOr("mooring_system.system_cost", 0), 1e-6)
}

func TestMooringSystem_DragEmbedmentAddsFixedLength(t *testing.T) {
	cfg := baseConfig().Set("mooring_system_design", config.MustFromAny(map[string]interface{}{
		"anchor_type":            "Drag Embedment",
		"mooring_line_cost_rate": 2500,
	}))
	d, err := design.NewMooringSystem(cfg.Set("turbine.turbine_rating", config.Int(6)), phase.Options{})
	require.NoError(t, err)
	require.NoError(t, d.Run())

	result, _ := d.DesignResult()
	load := 419449*0.12*0.12 + 93415*0.12 - 3577.9
	length := 0.0002*30*30 + 1.264*30 + 47.776 + 500
	assert.InDelta(t, 0.12, result.FloatOr("mooring_system.line_diam", 0), 1e-12)
	assert.InDelta(t, length, result.FloatOr("mooring_system.line_length", 0), 1e-9)
	assert.InDelta(t, length*2500, result.FloatOr("mooring_system.line_cost", 0), 1e-6)
	assert.InDelta(t, 20.0, result.FloatOr("mooring_system.anchor_mass", 0), 1e-12)
	assert.InDelta(t, load/9.81/20*2000, result.FloatOr("mooring_system.anchor_cost", 0), 1e-6)
}

func TestMooringSystem_UnknownAnchorType(t *testing.T) {
	cfg := baseConfig().Set("mooring_system_design.anchor_type", config.String("Screw Pile"))
	d, err := design.NewMooringSystem(cfg, phase.Options{})
	require.NoError(t, err)

	var cfgErr *shared.ConfigurationError
	assert.ErrorAs(t, d.Run(), &cfgErr)
}
