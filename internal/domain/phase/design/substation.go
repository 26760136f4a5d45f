package design

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

const substationRating = 800.0 // MW handled by one substation

// OffshoreSubstation sizes the substation topsides and substructures from
// the plant capacity and the number of export cables
type OffshoreSubstation struct {
	*phase.DesignBase
}

func offshoreSubstationSchema() config.Schema {
	return config.Schema{
		"site.depth":                                   config.Required("m"),
		"plant.capacity":                               config.Required("MW"),
		"export_system.num_cables":                     config.Required("int"),
		"substation_design.num_substations":            config.Optional("int"),
		"substation_design.mpt_cost_rate":              config.Optional("USD/MW"),
		"substation_design.shunt_cost_rate":            config.Optional("USD/MW"),
		"substation_design.switchgear_cost":            config.Optional("USD"),
		"substation_design.backup_gen_cost":            config.Optional("USD"),
		"substation_design.workspace_cost":             config.Optional("USD"),
		"substation_design.other_ancillary_cost":       config.Optional("USD"),
		"substation_design.topside_assembly_factor":    config.Optional("float"),
		"substation_design.oss_substructure_cost_rate": config.Optional("USD/t"),
	}
}

func offshoreSubstationOutputs() config.Schema {
	return config.Schema{
		"num_substations":                             config.Required("int"),
		"offshore_substation_topside.mass":            config.Required("t"),
		"offshore_substation_topside.deck_space":      config.Required("m2"),
		"offshore_substation_topside.unit_cost":       config.Required("USD"),
		"offshore_substation_substructure.mass":       config.Required("t"),
		"offshore_substation_substructure.length":     config.Required("m"),
		"offshore_substation_substructure.deck_space": config.Required("m2"),
		"offshore_substation_substructure.unit_cost":  config.Required("USD"),
	}
}

func NewOffshoreSubstation(cfg config.Value, opts phase.Options) (phase.Design, error) {
	base, err := phase.NewDesignBase("OffshoreSubstationDesign", cfg, offshoreSubstationSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &OffshoreSubstation{DesignBase: base}, nil
}

func (d *OffshoreSubstation) Run() error {
	return d.Compute(func() (config.Value, float64, config.Value, error) {
		cfg := d.Config()
		lib := d.Library()

		capacity := cfg.FloatOr("plant.capacity", 0)
		if err := positive("plant.capacity", capacity); err != nil {
			return config.Value{}, 0, config.Value{}, err
		}
		numSubstations := cfg.IntOr("substation_design.num_substations", int(math.Ceil(capacity/substationRating)))
		if numSubstations < 1 {
			numSubstations = 1
		}
		// one main power transformer per export cable
		numMPT := cfg.IntOr("export_system.num_cables", 1)
		if numMPT < 1 {
			numMPT = 1
		}
		mptRating := math.Round(capacity*1.15/float64(numMPT)/10) * 10
		perSub := float64(numMPT) / float64(numSubstations)

		mptCost := perSub * cfg.FloatOr("substation_design.mpt_cost_rate", lib.CommonCost("mpt_unit_cost"))
		shuntCost := perSub * mptRating * cfg.FloatOr("substation_design.shunt_cost_rate", lib.CommonCost("shunt_unit_cost"))
		switchgear := perSub * lib.Cost(cfg, "substation_design.switchgear_cost", "switchgear_cost")
		ancillary := lib.Cost(cfg, "substation_design.backup_gen_cost", "backup_gen_cost") +
			lib.Cost(cfg, "substation_design.workspace_cost", "workspace_cost") +
			lib.Cost(cfg, "substation_design.other_ancillary_cost", "other_ancillary_cost")
		assembly := (switchgear + shuntCost + ancillary) * lib.Cost(cfg, "substation_design.topside_assembly_factor", "topside_assembly_factor")

		topsideMass := 3.85*mptRating*perSub + 285
		topsideCost := mptCost + shuntCost + switchgear + ancillary + assembly

		depth := cfg.FloatOr("site.depth", 0)
		subMass := 0.4 * topsideMass
		pileMass := 8 * math.Pow(subMass, 0.5574)
		subCost := (subMass + pileMass) * lib.Cost(cfg, "substation_design.oss_substructure_cost_rate", "oss_substructure_cost_rate")

		result := config.EmptyMap().
			Set("num_substations", config.Int(numSubstations)).
			Set("offshore_substation_topside.mass", config.Number(topsideMass)).
			Set("offshore_substation_topside.deck_space", config.Number(1)).
			Set("offshore_substation_topside.unit_cost", config.Number(topsideCost)).
			Set("offshore_substation_substructure.mass", config.Number(subMass+pileMass)).
			Set("offshore_substation_substructure.length", config.Number(depth+10)).
			Set("offshore_substation_substructure.deck_space", config.Number(1)).
			Set("offshore_substation_substructure.unit_cost", config.Number(subCost))

		detailed := config.Map(map[string]config.Value{
			"num_mpt":         config.Int(numMPT),
			"mpt_rating":      config.Number(mptRating),
			"mpt_cost":        config.Number(mptCost),
			"shunt_cost":      config.Number(shuntCost),
			"switchgear_cost": config.Number(switchgear),
			"ancillary_cost":  config.Number(ancillary),
			"assembly_cost":   config.Number(assembly),
		})
		return result, (topsideCost + subCost) * float64(numSubstations), detailed, nil
	})
}
