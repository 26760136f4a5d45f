package config_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

func sampleConfig() config.Value {
	return config.MustFromAny(map[string]interface{}{
		"site": map[string]interface{}{
			"depth":    25,
			"distance": 100,
		},
		"plant": map[string]interface{}{
			"num_turbines": 50,
		},
		"design_phases": []interface{}{"MonopileDesign"},
	})
}

func TestValue_GetSetDelete(t *testing.T) {
	// Arrange
	cfg := sampleConfig()

	// Act
	updated := cfg.Set("site.mean_windspeed", config.Number(9.5)).Set("turbine.rating", config.Int(12))
	removed := updated.Delete("site.depth")

	// Assert
	depth, err := cfg.Float("site.depth")
	require.NoError(t, err)
	assert.Equal(t, 25.0, depth)
	assert.False(t, cfg.Has("site.mean_windspeed"), "original must not be mutated")
	assert.Equal(t, 9.5, updated.FloatOr("site.mean_windspeed", 0))
	assert.Equal(t, 12, updated.IntOr("turbine.rating", 0))
	assert.False(t, removed.Has("site.depth"))
	assert.True(t, removed.Has("site.distance"))
	assert.True(t, updated.Has("site.depth"))
}

func TestValue_NullLeavesCountAsAbsent(t *testing.T) {
	cfg := config.EmptyMap().Set("port.name", config.Null())

	assert.False(t, cfg.Has("port.name"))
	assert.True(t, cfg.Has("port"))
}

func TestValue_TypedAccessorsReportWrongKinds(t *testing.T) {
	cfg := config.EmptyMap().Set("site.depth", config.String("deep"))

	_, err := cfg.Float("site.depth")

	var cfgErr *shared.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "site.depth", cfgErr.Path)
}

func TestValue_FromAnyHandlesIntegerKeyedMaps(t *testing.T) {
	// Arrange
	raw := map[string]interface{}{
		"spend_schedule": map[interface{}]interface{}{0: 0.25, 1: 0.75},
	}

	// Act
	v, err := config.FromAny(raw)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, v.MapAt("spend_schedule").Keys())
	assert.Equal(t, 0.75, v.FloatOr("spend_schedule.1", 0))
}

func TestValue_ToAnyRoundTrip(t *testing.T) {
	cfg := sampleConfig()

	back, err := config.FromAny(cfg.ToAny())

	require.NoError(t, err)
	assert.True(t, cfg.Equal(back))
}

func TestValue_Leaves(t *testing.T) {
	leaves := sampleConfig().Leaves()

	assert.Equal(t, []string{"design_phases", "plant.num_turbines", "site.depth", "site.distance"}, leaves)
}

func TestMerge_OverrideWinsAndSiblingsAreInherited(t *testing.T) {
	// Arrange
	general := sampleConfig()
	override := config.EmptyMap().Set("site.depth", config.Int(40)).Set("design_phases", config.Strings("A", "B"))

	// Act
	merged := config.Merge(general, override)

	// Assert
	assert.Equal(t, 40.0, merged.FloatOr("site.depth", 0))
	assert.Equal(t, 100.0, merged.FloatOr("site.distance", 0))
	phases, _ := merged.Get("design_phases")
	assert.Equal(t, 2, phases.Len(), "sequences are replaced, not appended")
	assert.Equal(t, 25.0, general.FloatOr("site.depth", 0), "inputs are not modified")
}

func TestMerge_IdempotentAndOrderIndependentForDisjointKeys(t *testing.T) {
	base := sampleConfig()
	a := config.EmptyMap().Set("site.depth", config.Int(30))
	b := config.EmptyMap().Set("plant.layout", config.String("grid"))

	once := config.Merge(base, a)
	twice := config.Merge(once, a)
	ab := config.Merge(config.Merge(base, a), b)
	ba := config.Merge(config.Merge(base, b), a)

	assert.True(t, once.Equal(twice))
	assert.True(t, ab.Equal(ba))
}

func TestMergeMissing_ExistingValuesWin(t *testing.T) {
	// Arrange
	base := sampleConfig()
	produced := config.EmptyMap().
		Set("site.depth", config.Int(99)).
		Set("monopile.diameter", config.Number(8.2))

	// Act
	merged := config.MergeMissing(base, produced)

	// Assert
	assert.Equal(t, 25.0, merged.FloatOr("site.depth", 0))
	assert.Equal(t, 8.2, merged.FloatOr("monopile.diameter", 0))
}

func TestNamespace_OverridesDoNotLeak(t *testing.T) {
	// Arrange
	project := sampleConfig().
		Set("MonopileInstallation.site.depth", config.Int(60)).
		Set("TurbineInstallation.site.distance", config.Int(10))
	names := []string{"MonopileInstallation", "TurbineInstallation"}

	// Act
	mono := config.Namespace(project, "MonopileInstallation", names)
	turbine := config.Namespace(project, "TurbineInstallation", names)
	general := config.Namespace(project, "Unknown", names)

	// Assert
	assert.Equal(t, 60.0, mono.FloatOr("site.depth", 0))
	assert.Equal(t, 100.0, mono.FloatOr("site.distance", 0))
	assert.False(t, mono.Has("TurbineInstallation"))
	assert.Equal(t, 25.0, turbine.FloatOr("site.depth", 0))
	assert.Equal(t, 10.0, turbine.FloatOr("site.distance", 0))
	assert.Equal(t, 25.0, general.FloatOr("site.depth", 0))
}

func TestValidate_ReportsEveryMissingPathAtOnce(t *testing.T) {
	// Arrange
	schema := config.Schema{
		"site.depth":          config.Required("m"),
		"site.distance":       config.Required("km"),
		"turbine.hub_height":  config.Required("m"),
		"monopile.deck.space": config.Required("m2"),
		"port.num_cranes":     config.OptionalDefault("int", config.Int(1)),
	}
	cfg := config.EmptyMap().Set("site.depth", config.Int(20))

	// Act
	err := config.Validate(cfg, schema)

	// Assert
	var missing *shared.MissingInputsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"monopile.deck.space", "site.distance", "turbine.hub_height"}, missing.Paths)
}

func TestValidate_PassesWhenComplete(t *testing.T) {
	schema := config.Schema{"site.depth": config.Required("m")}

	assert.NoError(t, config.Validate(sampleConfig(), schema))
}

func TestSchema_UnionAndWithout(t *testing.T) {
	// Arrange
	design := config.Schema{
		"site.depth":        config.Required("m"),
		"turbine.rating":    config.Required("MW"),
		"monopile.diameter": config.Optional("m"),
	}
	install := config.Schema{
		"site.depth":        config.Required("m"),
		"monopile":          config.Required("dict"),
		"monopile.diameter": config.Required("m"),
		"port.num_cranes":   config.Optional("int"),
	}
	outputs := config.Schema{"monopile": config.Required("dict")}

	// Act
	compiled := config.CompileSchema(install, design).Without(outputs)

	// Assert
	assert.Equal(t, []string{"port.num_cranes", "site.depth", "turbine.rating"}, compiled.Paths())
	assert.True(t, compiled["port.num_cranes"].Optional)
}

func TestSchema_UnionRequiredWins(t *testing.T) {
	a := config.Schema{"site.depth": config.Optional("m")}
	b := config.Schema{"site.depth": config.Required("ft")}

	merged := a.Union(b)

	assert.False(t, merged["site.depth"].Optional)
	assert.Equal(t, "ft", merged["site.depth"].Unit)
}

func TestSchema_LabelRoundTrip(t *testing.T) {
	// Arrange
	schema := config.Schema{
		"wtiv":              config.Required("dict | str"),
		"port.num_cranes":   config.OptionalDefault("int", config.Int(1)),
		"port.monthly_rate": config.Optional("USD/mo"),
		"site.depth":        config.Required("m"),
	}

	// Act
	parsed, err := config.ParseSchema(schema.Value())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, schema.Paths(), parsed.Paths())
	for _, p := range schema.Paths() {
		assert.Equal(t, schema[p].Label(), parsed[p].Label(), p)
	}
}

func TestApplyDefaults(t *testing.T) {
	schema := config.Schema{"port.num_cranes": config.OptionalDefault("int", config.Int(1))}

	withDefaults := config.ApplyDefaults(sampleConfig(), schema)
	explicit := config.ApplyDefaults(sampleConfig().Set("port.num_cranes", config.Int(3)), schema)

	assert.Equal(t, 1, withDefaults.IntOr("port.num_cranes", 0))
	assert.Equal(t, 3, explicit.IntOr("port.num_cranes", 0))
}

func TestValue_JSONRoundTrip(t *testing.T) {
	v := config.MustFromAny(map[string]interface{}{
		"site":  map[string]interface{}{"depth": 25.5},
		"names": []interface{}{"a", "b"},
		"flag":  true,
	})

	data, err := json.Marshal(v)
	require.NoError(t, err)
	var back config.Value
	require.NoError(t, json.Unmarshal(data, &back))

	assert.True(t, v.Equal(back))
}
