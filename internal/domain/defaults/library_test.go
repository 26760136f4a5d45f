package defaults_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

func TestBuiltin_ContainsReferenceVessels(t *testing.T) {
	lib, err := defaults.Builtin()
	require.NoError(t, err)

	for _, name := range []string{"example_wtiv", "example_feeder", "example_heavy_lift_vessel", "example_cable_lay_vessel", "example_heavy_feeder", "example_scour_protection_vessel", "example_support_vessel"} {
		_, ok := lib.Vessel(name)
		assert.True(t, ok, name)
	}

	wtiv, _ := lib.Vessel("example_wtiv")
	assert.Equal(t, 180000.0, wtiv.FloatOr("vessel_specs.day_rate", 0))
	assert.Equal(t, 20.0, lib.ProcessTime("mono_drive_rate"))
	assert.Equal(t, 2e6, lib.CommonCost("port_cost_per_month"))
}

func TestProcess_PhaseConfigOverridesDefault(t *testing.T) {
	lib := defaults.MustBuiltin()
	cfg := config.MustFromAny(map[string]interface{}{"processes": map[string]interface{}{"mono_fasten_time": 6}})

	assert.Equal(t, 6.0, lib.Process(cfg, "mono_fasten_time"))
	assert.Equal(t, 3.0, lib.Process(cfg, "mono_release_time"))
}

func TestResolveVessel(t *testing.T) {
	lib := defaults.MustBuiltin()

	byName, err := lib.ResolveVessel("wtiv", config.String("example_feeder"))
	require.NoError(t, err)
	assert.Equal(t, "Example Feeder", byName.StrOr("name", ""))

	inline := config.MustFromAny(map[string]interface{}{"name": "Custom"})
	got, err := lib.ResolveVessel("wtiv", inline)
	require.NoError(t, err)
	assert.True(t, got.Equal(inline))

	_, err = lib.ResolveVessel("wtiv", config.String("missing_vessel"))
	var cfgErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = lib.ResolveVessel("wtiv", config.Null())
	var missing *shared.MissingInputsError
	assert.ErrorAs(t, err, &missing)
}

func TestWithVessels_DoesNotModifyOriginal(t *testing.T) {
	lib := defaults.MustBuiltin()
	extended := lib.WithVessels(map[string]config.Value{"my_vessel": config.EmptyMap()})

	_, inOriginal := lib.Vessel("my_vessel")
	_, inExtended := extended.Vessel("my_vessel")
	assert.False(t, inOriginal)
	assert.True(t, inExtended)
}

func TestParse_RejectsInvalidYAML(t *testing.T) {
	_, err := defaults.Parse([]byte("vessels: [unclosed"))
	assert.Error(t, err)
}

func TestTimes_BindsPhaseConfig(t *testing.T) {
	lib := defaults.MustBuiltin()
	times := lib.Times(config.MustFromAny(map[string]interface{}{"processes": map[string]interface{}{"site_position_time": 4}}))

	assert.Equal(t, 4.0, times.Get("site_position_time"))
	assert.Equal(t, 1.0, times.Get("rov_survey_time"))
}
