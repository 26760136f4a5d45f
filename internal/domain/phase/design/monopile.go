package design

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

const (
	steelDensity      = 7.86 // t/m3
	tpLength          = 25.0 // m
	monopileFreeboard = 5.0  // m above the waterline
)

// Monopile sizes monopile foundations and transition pieces from the
// rotor size and site depth
type Monopile struct {
	*phase.DesignBase
}

func monopileSchema() config.Schema {
	return config.Schema{
		"site.depth":                          config.Required("m"),
		"plant.num_turbines":                  config.Required("int"),
		"turbine.rotor_diameter":              config.Required("m"),
		"turbine.hub_height":                  config.Required("m"),
		"monopile_design.monopile_steel_cost": config.Optional("USD/t"),
		"monopile_design.tp_steel_cost":       config.Optional("USD/t"),
		"monopile_design.embedment_ratio":     config.OptionalDefault("float", config.Number(3.5)),
	}
}

func monopileOutputs() config.Schema {
	return config.Schema{
		"monopile.diameter":           config.Required("m"),
		"monopile.length":             config.Required("m"),
		"monopile.embedment_length":   config.Required("m"),
		"monopile.mass":               config.Required("t"),
		"monopile.deck_space":         config.Required("m2"),
		"monopile.unit_cost":          config.Required("USD"),
		"transition_piece.length":     config.Required("m"),
		"transition_piece.mass":       config.Required("t"),
		"transition_piece.deck_space": config.Required("m2"),
		"transition_piece.unit_cost":  config.Required("USD"),
	}
}

func NewMonopile(cfg config.Value, opts phase.Options) (phase.Design, error) {
	base, err := phase.NewDesignBase("MonopileDesign", cfg, monopileSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &Monopile{DesignBase: base}, nil
}

// tube is the steel mass of a hollow cylinder
func tube(diameter, thickness, length float64) float64 {
	return math.Pi * (diameter - thickness) * thickness * length * steelDensity
}

func (d *Monopile) Run() error {
	return d.Compute(func() (config.Value, float64, config.Value, error) {
		cfg := d.Config()
		lib := d.Library()

		depth := cfg.FloatOr("site.depth", 0)
		rotor := cfg.FloatOr("turbine.rotor_diameter", 0)
		if err := positive("turbine.rotor_diameter", rotor); err != nil {
			return config.Value{}, 0, config.Value{}, err
		}

		diameter := 1.2 + 0.05*rotor
		thickness := 0.00635 + diameter/100
		embedment := cfg.FloatOr("monopile_design.embedment_ratio", 3.5) * diameter
		length := depth + embedment + monopileFreeboard
		mass := tube(diameter, thickness, length)
		monoCost := mass * lib.Cost(cfg, "monopile_design.monopile_steel_cost", "monopile_steel_cost")

		tpDiameter := diameter + 0.1
		tpMass := tube(tpDiameter, thickness, tpLength)
		tpCost := tpMass * lib.Cost(cfg, "monopile_design.tp_steel_cost", "tp_steel_cost")

		num := float64(cfg.IntOr("plant.num_turbines", 0))
		total := (monoCost + tpCost) * num

		result := config.EmptyMap().
			Set("monopile.diameter", config.Number(diameter)).
			Set("monopile.length", config.Number(length)).
			Set("monopile.embedment_length", config.Number(embedment)).
			Set("monopile.mass", config.Number(mass)).
			Set("monopile.deck_space", config.Number(diameter*length)).
			Set("monopile.unit_cost", config.Number(monoCost)).
			Set("transition_piece.length", config.Number(tpLength)).
			Set("transition_piece.mass", config.Number(tpMass)).
			Set("transition_piece.deck_space", config.Number(tpDiameter*tpDiameter)).
			Set("transition_piece.unit_cost", config.Number(tpCost))

		detailed := config.Map(map[string]config.Value{
			"wall_thickness":        config.Number(thickness),
			"total_monopile_mass":   config.Number(mass * num),
			"total_monopile_cost":   config.Number(monoCost * num),
			"total_transition_mass": config.Number(tpMass * num),
			"total_transition_cost": config.Number(tpCost * num),
		})
		return result, total, detailed, nil
	})
}
