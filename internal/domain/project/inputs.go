package project

import (
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

// Reserved top-level keys of a project config
const (
	KeyDesignPhases      = "design_phases"
	KeyInstallPhases     = "install_phases"
	KeyProjectParameters = "project_parameters"
)

// ProjectParametersSchema lists the optional financial inputs with their
// defaults. Per-kW overrides have no default and replace the factor-based
// figure when given.
func ProjectParametersSchema() config.Schema {
	num := func(unit string, v float64) config.Field { return config.OptionalDefault(unit, config.Number(v)) }
	s := config.Schema{
		"turbine_capex":                   num("USD/kW", 1300),
		"ncf":                             num("float", 0.4),
		"offtake_price":                   num("USD/MWh", 80),
		"project_lifetime":                num("yrs", 25),
		"discount_rate":                   num("yearly", 0.025),
		"opex_rate":                       num("USD/kW/year", 150),
		"construction_insurance_factor":   num("float", 0.0115),
		"decommissioning_factor":          num("float", 0.175),
		"commissioning_factor":            num("float", 0.0115),
		"procurement_contingency_factor":  num("float", 0.0575),
		"installation_contingency_factor": num("float", 0.345),
		"interest_during_construction":    num("float", 0.044),
		"tax_rate":                        num("float", 0.26),
		"site_auction_price":              num("USD", 122698898),
		"site_assessment_cost":            num("USD", 61349449),
		"construction_plan_cost":          num("USD", 1226989),
		"installation_plan_cost":          num("USD", 306747),
		"spend_schedule":                  config.Optional("dict (default: {0: 0.25, 1: 0.25, 2: 0.3, 3: 0.1, 4: 0.1, 5: 0.0})"),
		"construction_financing_factor":   config.Optional("float"),
	}
	for _, key := range perKWOverrides {
		s[key] = config.Optional("USD/kW")
	}

	out := config.Schema{}
	for p, f := range s {
		out[KeyProjectParameters+"."+p] = f
	}
	return out
}

var perKWOverrides = []string{
	"construction_insurance",
	"decommissioning",
	"commissioning",
	"procurement_contingency",
	"installation_contingency",
	"construction_financing",
}

// CompileSchema returns the inputs needed to run phases together: the union
// of every expected schema minus whatever a listed design phase produces
func CompileSchema(registry *phase.Registry, phases []string) (config.Schema, []string, []string, error) {
	var designs, installs []string
	var designRegs, installRegs []phase.Registration
	var missing []string
	for _, name := range phases {
		reg, err := registry.Lookup(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		if reg.Kind == phase.KindDesign {
			designs = append(designs, name)
			designRegs = append(designRegs, reg)
		} else {
			installs = append(installs, name)
			installRegs = append(installRegs, reg)
		}
	}
	if len(missing) > 0 {
		return nil, nil, nil, phaseNotFound(missing)
	}

	schema := config.Schema{}
	for _, reg := range installRegs {
		schema = schema.Union(reg.Expected)
	}
	for _, reg := range designRegs {
		schema = schema.Union(reg.Expected)
	}
	for _, reg := range designRegs {
		schema = schema.Without(reg.Output)
	}
	return schema.Union(ProjectParametersSchema()), designs, installs, nil
}

// CompileInputDict renders CompileSchema as a config tree of unit labels,
// with the phase lists filled in
func CompileInputDict(registry *phase.Registry, phases []string) (config.Value, error) {
	schema, designs, installs, err := CompileSchema(registry, phases)
	if err != nil {
		return config.Value{}, err
	}
	out := schema.Value()
	out = out.With(KeyDesignPhases, config.Strings(designs...))
	out = out.With(KeyInstallPhases, config.Strings(installs...))
	return out, nil
}
