package design

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

const defaultArrayCable = "XLPE_630mm_66kV"

// ArraySystem strings turbines together with array cables and lays them
// out on a grid of rows leading back to the substation
type ArraySystem struct {
	*phase.DesignBase
}

func arraySystemSchema() config.Schema {
	return config.Schema{
		"site.depth":                          config.Required("m"),
		"plant.num_turbines":                  config.Required("int"),
		"plant.turbine_spacing":               config.OptionalDefault("rotor diameters", config.Int(7)),
		"plant.row_spacing":                   config.OptionalDefault("rotor diameters", config.Int(7)),
		"turbine.turbine_rating":              config.Required("MW"),
		"turbine.rotor_diameter":              config.Required("m"),
		"array_system_design.cables":          config.OptionalDefault("str", config.String(defaultArrayCable)),
		"array_system_design.touchdown_ratio": config.OptionalDefault("float", config.Number(1)),
	}
}

func arraySystemOutputs() config.Schema {
	return config.Schema{
		"array_system.cable":        config.Required("dict"),
		"array_system.sections":     config.Required("list"),
		"array_system.total_length": config.Required("km"),
		"array_system.total_mass":   config.Required("t"),
		"array_system.system_cost":  config.Required("USD"),
		"array_system.num_strings":  config.Required("int"),
	}
}

func NewArraySystem(cfg config.Value, opts phase.Options) (phase.Design, error) {
	base, err := phase.NewDesignBase("ArraySystemDesign", cfg, arraySystemSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &ArraySystem{DesignBase: base}, nil
}

func (d *ArraySystem) Run() error {
	return d.Compute(func() (config.Value, float64, config.Value, error) {
		cfg := d.Config()
		cs, err := newCableSystem(cfg, "array_system_design.cables", defaultArrayCable, d.Library())
		if err != nil {
			return config.Value{}, 0, config.Value{}, err
		}

		rating := cfg.FloatOr("turbine.turbine_rating", 0)
		if err := positive("turbine.turbine_rating", rating); err != nil {
			return config.Value{}, 0, config.Value{}, err
		}
		perString := int(math.Floor(cs.Cable.Power() / rating))
		if perString < 1 {
			return config.Value{}, 0, config.Value{}, shared.NewConfigurationError("array_system_design.cables",
				"cable capacity is below a single turbine rating")
		}

		rotor := cfg.FloatOr("turbine.rotor_diameter", 0)
		depth := cfg.FloatOr("site.depth", 0)
		hang := 2 * depth / 1000 * cfg.FloatOr("array_system_design.touchdown_ratio", 1)
		between := cfg.FloatOr("plant.turbine_spacing", 7)*rotor/1000 + hang
		toSubstation := cfg.FloatOr("plant.row_spacing", 7)*rotor/1000 + hang

		remaining := cfg.IntOr("plant.num_turbines", 0)
		for remaining > 0 {
			n := perString
			if remaining < n {
				n = remaining
			}
			sections := []float64{toSubstation}
			for i := 1; i < n; i++ {
				sections = append(sections, between)
			}
			cs.Sections = append(cs.Sections, sections)
			remaining -= n
		}

		result := cs.result("array_system").Set("array_system.num_strings", config.Int(len(cs.Sections)))
		detailed := cs.detailed().With("turbines_per_string", config.Int(perString))
		return result, cs.TotalCost(), detailed, nil
	})
}
