package design

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

const (
	scourDepthFactor = 1.3
	// angle of internal friction of the rock layer, degrees
	frictionAngle = 33.5
)

// ScourProtection sizes the rock layer placed around each monopile
type ScourProtection struct {
	*phase.DesignBase
}

func scourProtectionSchema() config.Schema {
	return config.Schema{
		"plant.num_turbines":                              config.Required("int"),
		"monopile.diameter":                               config.Required("m"),
		"scour_protection_design.cost_per_tonne":          config.Optional("USD/t"),
		"scour_protection_design.rock_density":            config.OptionalDefault("kg/m3", config.Int(2600)),
		"scour_protection_design.scour_depth_equilibrium": config.OptionalDefault("float", config.Number(scourDepthFactor)),
	}
}

func scourProtectionOutputs() config.Schema {
	return config.Schema{
		"scour_protection.tonnes_per_substructure": config.Required("t"),
		"scour_protection.cost_per_tonne":          config.Required("USD/t"),
	}
}

func NewScourProtection(cfg config.Value, opts phase.Options) (phase.Design, error) {
	base, err := phase.NewDesignBase("ScourProtectionDesign", cfg, scourProtectionSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &ScourProtection{DesignBase: base}, nil
}

func (d *ScourProtection) Run() error {
	return d.Compute(func() (config.Value, float64, config.Value, error) {
		cfg := d.Config()
		diameter := cfg.FloatOr("monopile.diameter", 0)
		if err := positive("monopile.diameter", diameter); err != nil {
			return config.Value{}, 0, config.Value{}, err
		}

		scourDepth := cfg.FloatOr("scour_protection_design.scour_depth_equilibrium", scourDepthFactor) * diameter
		radius := diameter/2 + scourDepth/math.Tan(frictionAngle*math.Pi/180)
		volume := math.Pi * radius * radius * scourDepth
		tonnes := cfg.FloatOr("scour_protection_design.rock_density", 2600) * volume / 1000
		perTonne := d.Library().Cost(cfg, "scour_protection_design.cost_per_tonne", "scour_cost_per_tonne")
		num := float64(cfg.IntOr("plant.num_turbines", 0))

		result := config.EmptyMap().
			Set("scour_protection.tonnes_per_substructure", config.Number(tonnes)).
			Set("scour_protection.cost_per_tonne", config.Number(perTonne))
		detailed := config.Map(map[string]config.Value{
			"scour_depth":  config.Number(scourDepth),
			"radius":       config.Number(radius),
			"total_tonnes": config.Number(tonnes * num),
		})
		return result, perTonne * tonnes * num, detailed, nil
	})
}
