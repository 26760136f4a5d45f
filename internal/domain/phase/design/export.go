package design

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

const defaultExportCable = "XLPE_1000mm_220kV"

// ExportSystem sizes the export cables between the offshore substation and
// the landfall
type ExportSystem struct {
	*phase.DesignBase
}

func exportSystemSchema() config.Schema {
	return config.Schema{
		"site.depth":                                              config.Required("m"),
		"site.distance_to_landfall":                               config.Required("km"),
		"plant.capacity":                                          config.Required("MW"),
		"landfall.interconnection_distance":                       config.OptionalDefault("km", config.Int(3)),
		"export_system_design.cables":                             config.OptionalDefault("str", config.String(defaultExportCable)),
		"export_system_design.num_redundant":                      config.OptionalDefault("int", config.Int(0)),
		"export_system_design.percent_added_length":               config.OptionalDefault("float", config.Number(0.1)),
		"export_system_design.cable_crossings.crossing_number":    config.OptionalDefault("int", config.Int(0)),
		"export_system_design.cable_crossings.crossing_unit_cost": config.Optional("USD"),
	}
}

func exportSystemOutputs() config.Schema {
	return config.Schema{
		"export_system.cable":        config.Required("dict"),
		"export_system.sections":     config.Required("list"),
		"export_system.num_cables":   config.Required("int"),
		"export_system.total_length": config.Required("km"),
		"export_system.total_mass":   config.Required("t"),
		"export_system.system_cost":  config.Required("USD"),
		"export_system.cable_length": config.Required("km"),
	}
}

func NewExportSystem(cfg config.Value, opts phase.Options) (phase.Design, error) {
	base, err := phase.NewDesignBase("ExportSystemDesign", cfg, exportSystemSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &ExportSystem{DesignBase: base}, nil
}

func (d *ExportSystem) Run() error {
	return d.Compute(func() (config.Value, float64, config.Value, error) {
		cfg := d.Config()
		cs, err := newCableSystem(cfg, "export_system_design.cables", defaultExportCable, d.Library())
		if err != nil {
			return config.Value{}, 0, config.Value{}, err
		}

		capacity := cfg.FloatOr("plant.capacity", 0)
		if err := positive("plant.capacity", capacity); err != nil {
			return config.Value{}, 0, config.Value{}, err
		}
		// reactive compensation derates long HVAC cables
		power := cs.Cable.Power() * (1 - cs.Cable.CompensationFactor)
		num := int(math.Ceil(capacity/power)) + cfg.IntOr("export_system_design.num_redundant", 0)

		distance := cfg.FloatOr("site.distance_to_landfall", 0)
		depth := cfg.FloatOr("site.depth", 0)
		added := cfg.FloatOr("export_system_design.percent_added_length", 0.1)
		length := (distance+depth/1000)*(1+added) + cfg.FloatOr("landfall.interconnection_distance", 3)

		for i := 0; i < num; i++ {
			cs.Sections = append(cs.Sections, []float64{length})
		}
		crossings := cfg.IntOr("export_system_design.cable_crossings.crossing_number", 0)
		unit := d.Library().Cost(cfg, "export_system_design.cable_crossings.crossing_unit_cost", "crossing_unit_cost")
		cs.Crossing = float64(crossings*num) * unit

		result := cs.result("export_system").
			Set("export_system.num_cables", config.Int(num)).
			Set("export_system.cable_length", config.Number(length))
		detailed := cs.detailed().With("num_cables", config.Int(num)).With("crossing_cost", config.Number(cs.Crossing))
		return result, cs.TotalCost(), detailed, nil
	})
}
