package helpers

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// DredgeRate is the hourly rate of the test dredger
const DredgeRate = 100.0

// dredging is a minimal installation phase: one dredger works dredge.hours,
// optionally limited by dredge.max_waveheight
type dredging struct {
	*phase.InstallBase
}

// DredgingSchema is the expected config of the Dredging test phase
func DredgingSchema() config.Schema {
	return config.Schema{
		"dredge.hours":          config.Required("h"),
		"dredge.max_waveheight": config.Optional("m"),
		"dredge.system_cost":    config.OptionalDefault("USD", config.Number(0)),
		"dredge.needs_crane":    config.OptionalDefault("bool", config.Bool(false)),
	}.Union(phase.PortSchema())
}

func (d *dredging) Run(ctx context.Context) error {
	return d.Execute(ctx, func(env *simulation.Environment) error {
		cfg := d.Config()
		if cfg.BoolOr("dredge.needs_crane", false) {
			return shared.NewMissingComponentError("Dredger", "Crane")
		}
		var opts []simulation.TaskOption
		if cfg.Has("dredge.max_waveheight") {
			opts = append(opts, simulation.WithConstraint(weather.Constraint{
				Waveheight: weather.Max(cfg.FloatOr("dredge.max_waveheight", 0)),
			}))
		}
		dredger := simulation.NewAgent("Dredger", DredgeRate*24)
		dredger.Then(
			simulation.Task("Dredge", cfg.FloatOr("dredge.hours", 0), opts...),
			simulation.Progress("Seabed"),
		)
		env.Register(dredger)
		d.SetSystemCapex(cfg.FloatOr("dredge.system_cost", 0))
		return nil
	})
}

// trenchSizing is a design phase computing dredge.hours = site.depth * 10
type trenchSizing struct {
	*phase.DesignBase
}

func (s *trenchSizing) Run() error {
	return s.Compute(func() (config.Value, float64, config.Value, error) {
		hours := s.Config().FloatOr("site.depth", 0) * 10
		result := config.EmptyMap().Set("dredge.hours", config.Number(hours))
		return result, 1000, config.Value{}, nil
	})
}

// TestRegistry returns a registry with the Dredging installation phase and
// the TrenchSizing design phase
func TestRegistry() *phase.Registry {
	designSchema := config.Schema{"site.depth": config.Required("m")}

	r := phase.NewRegistry()
	r.MustRegister(
		phase.Registration{
			Name:     "Dredging",
			Kind:     phase.KindInstall,
			Category: "Seabed Preparation",
			Expected: DredgingSchema(),
			NewInstall: func(cfg config.Value, opts phase.Options) (phase.Install, error) {
				base, err := phase.NewInstallBase("Dredging", cfg, DredgingSchema(), opts)
				if err != nil {
					return nil, err
				}
				return &dredging{InstallBase: base}, nil
			},
		},
		phase.Registration{
			Name:     "TrenchSizing",
			Kind:     phase.KindDesign,
			Category: "Seabed Preparation",
			Expected: designSchema,
			Output:   config.Schema{"dredge.hours": config.Required("h")},
			NewDesign: func(cfg config.Value, opts phase.Options) (phase.Design, error) {
				base, err := phase.NewDesignBase("TrenchSizing", cfg, designSchema, opts)
				if err != nil {
					return nil, err
				}
				return &trenchSizing{DesignBase: base}, nil
			},
		},
	)
	return r
}

// MustConfig converts a plain map into a config value or fails the test
func MustConfig(t interface {
	Helper()
	Fatalf(string, ...interface{})
}, raw map[string]interface{}) config.Value {
	t.Helper()
	v, err := config.FromAny(raw)
	if err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	return v
}
