package design

import (
	"fmt"
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// Anchor types accepted by the mooring design and installation
const (
	AnchorSuctionPile   = "Suction Pile"
	AnchorDragEmbedment = "Drag Embedment"
	AnchorDandGPile     = "D&G Pile"
)

const defaultMooringLines = 4

// mooringLine is a chain size picked from the turbine rating
type mooringLine struct {
	diameter float64 // m
	massPerM float64 // t/m
	costRate float64 // USD/m
}

var mooringLines = []mooringLine{
	{diameter: 0.09, massPerM: 0.161, costRate: 399},
	{diameter: 0.12, massPerM: 0.288, costRate: 721},
	{diameter: 0.15, massPerM: 0.450, costRate: 1088},
}

// MooringSystem sizes the catenary lines and anchors holding each floating
// substructure
type MooringSystem struct {
	*phase.DesignBase
}

func mooringSystemSchema() config.Schema {
	return config.Schema{
		"site.depth":                                        config.Required("m"),
		"turbine.turbine_rating":                            config.Required("MW"),
		"plant.num_turbines":                                config.Required("int"),
		"mooring_system_design.num_lines":                   config.OptionalDefault("int", config.Int(defaultMooringLines)),
		"mooring_system_design.anchor_type":                 config.OptionalDefault("str", config.String(AnchorSuctionPile)),
		"mooring_system_design.mooring_line_cost_rate":      config.Optional("USD/m"),
		"mooring_system_design.drag_embedment_fixed_length": config.Optional("m"),
	}
}

func mooringSystemOutputs() config.Schema {
	return config.Schema{
		"mooring_system.num_lines":   config.Required("int"),
		"mooring_system.line_diam":   config.Required("m"),
		"mooring_system.line_mass":   config.Required("t"),
		"mooring_system.line_length": config.Required("m"),
		"mooring_system.line_cost":   config.Required("USD"),
		"mooring_system.anchor_type": config.Required("str"),
		"mooring_system.anchor_mass": config.Required("t"),
		"mooring_system.anchor_cost": config.Required("USD"),
		"mooring_system.system_cost": config.Required("USD"),
	}
}

func NewMooringSystem(cfg config.Value, opts phase.Options) (phase.Design, error) {
	base, err := phase.NewDesignBase("MooringSystemDesign", cfg, mooringSystemSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &MooringSystem{DesignBase: base}, nil
}

// pickMooringLine fits the chain diameter to the turbine rating
func pickMooringLine(rating float64) mooringLine {
	fit := -0.0004*rating*rating + 0.0132*rating + 0.0536
	for _, l := range mooringLines[:len(mooringLines)-1] {
		if fit <= l.diameter {
			return l
		}
	}
	return mooringLines[len(mooringLines)-1]
}

// breakingLoad of a chain in kN
func breakingLoad(diameter float64) float64 {
	return 419449*diameter*diameter + 93415*diameter - 3577.9
}

// anchorMassAndCost sizes one anchor for the given breaking load
func anchorMassAndCost(anchorType string, load float64) (float64, float64, error) {
	switch anchorType {
	case AnchorDragEmbedment:
		return 20, load / 9.81 / 20 * 2000, nil
	case AnchorSuctionPile, AnchorDandGPile:
		return 50, math.Sqrt(load/9.81/1250) * 150000, nil
	}
	return 0, 0, shared.NewConfigurationError("mooring_system_design.anchor_type", fmt.Sprintf("unknown anchor type %q", anchorType))
}

func (d *MooringSystem) Run() error {
	return d.Compute(func() (config.Value, float64, config.Value, error) {
		cfg := d.Config()
		depth := cfg.FloatOr("site.depth", 0)
		if err := positive("site.depth", depth); err != nil {
			return config.Value{}, 0, config.Value{}, err
		}
		lines := cfg.IntOr("mooring_system_design.num_lines", defaultMooringLines)
		if lines < 1 {
			return config.Value{}, 0, config.Value{}, shared.NewConfigurationError("mooring_system_design.num_lines", "must be at least 1")
		}
		anchorType := cfg.StrOr("mooring_system_design.anchor_type", AnchorSuctionPile)

		line := pickMooringLine(cfg.FloatOr("turbine.turbine_rating", 0))
		costRate := cfg.FloatOr("mooring_system_design.mooring_line_cost_rate", line.costRate)
		load := breakingLoad(line.diameter)
		anchorMass, anchorCost, err := anchorMassAndCost(anchorType, load)
		if err != nil {
			return config.Value{}, 0, config.Value{}, err
		}

		// drag embedment anchors need extra chain laid along the seabed
		fixedDefault := 0.0
		if anchorType == AnchorDragEmbedment {
			fixedDefault = 500
		}
		fixed := cfg.FloatOr("mooring_system_design.drag_embedment_fixed_length", fixedDefault)
		length := 0.0002*depth*depth + 1.264*depth + 47.776 + fixed
		lineCost := length * costRate

		num := float64(cfg.IntOr("plant.num_turbines", 0))
		systemCost := float64(lines) * num * (anchorCost + lineCost)

		result := config.EmptyMap().
			Set("mooring_system.num_lines", config.Int(lines)).
			Set("mooring_system.line_diam", config.Number(line.diameter)).
			Set("mooring_system.line_mass", config.Number(length*line.massPerM)).
			Set("mooring_system.line_length", config.Number(length)).
			Set("mooring_system.line_cost", config.Number(lineCost)).
			Set("mooring_system.anchor_type", config.String(anchorType)).
			Set("mooring_system.anchor_mass", config.Number(anchorMass)).
			Set("mooring_system.anchor_cost", config.Number(anchorCost)).
			Set("mooring_system.system_cost", config.Number(systemCost))
		detailed := config.Map(map[string]config.Value{
			"breaking_load":  config.Number(load),
			"line_cost_rate": config.Number(costRate),
			"system_cost":    config.Number(systemCost),
			"num_anchors":    config.Int(lines * int(num)),
		})
		return result, systemCost, detailed, nil
	})
}
