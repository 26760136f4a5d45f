package project

import (
	"math"
	"sort"
	"strconv"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// Breakdown categories added on top of the phase categories
const (
	CategoryTurbine = "Turbine"
	CategorySoft    = "Soft"
	CategoryProject = "Project"
	CategoryMisc    = "Misc."
)

// Soft cost line items
const (
	SoftConstructionInsurance   = "Construction Insurance"
	SoftDecommissioning         = "Decommissioning"
	SoftCommissioning           = "Commissioning"
	SoftProcurementContingency  = "Procurement Contingency"
	SoftInstallationContingency = "Installation Contingency"
	SoftConstructionFinancing   = "Construction Financing"
)

// Capex holds the aggregated project cost figures in USD
type Capex struct {
	System       float64
	Installation float64
	Turbine      float64
	Project      float64
	Soft         float64

	SoftBreakdown map[string]float64
	// Breakdown sums to Total
	Breakdown map[string]float64

	capacityKW float64
}

func (c Capex) BOS() float64 { return c.System + c.Installation }

func (c Capex) Overnight() float64 { return c.System + c.Turbine }

func (c Capex) Total() float64 { return c.BOS() + c.Turbine + c.Soft + c.Project }

// PerKW divides a figure by plant capacity; zero when capacity is unknown
func (c Capex) PerKW(v float64) float64 {
	if c.capacityKW <= 0 {
		return 0
	}
	return v / c.capacityKW
}

// BreakdownPerKW is Breakdown divided by capacity
func (c Capex) BreakdownPerKW() map[string]float64 {
	return perKW(c.Breakdown, c.PerKW)
}

// SoftBreakdownPerKW is SoftBreakdown divided by capacity
func (c Capex) SoftBreakdownPerKW() map[string]float64 {
	return perKW(c.SoftBreakdown, c.PerKW)
}

// DetailedBreakdown replaces the Soft category by its line items
func (c Capex) DetailedBreakdown() map[string]float64 {
	out := make(map[string]float64, len(c.Breakdown)+len(c.SoftBreakdown))
	for k, v := range c.Breakdown {
		if k != CategorySoft {
			out[k] = v
		}
	}
	for k, v := range c.SoftBreakdown {
		out[k] = v
	}
	return out
}

func perKW(in map[string]float64, f func(float64) float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = f(v)
	}
	return out
}

// capexInputs are the per-phase costs gathered by a run
type capexInputs struct {
	systemCosts       map[string]float64
	installationCosts map[string]float64
	categories        map[string]string
	plant             plantSize
	params            config.Value
}

func computeCapex(in capexInputs) (Capex, error) {
	c := Capex{
		System:       sumValues(in.systemCosts),
		Installation: sumValues(in.installationCosts),
		Project:      projectCapex(in.params),
		capacityKW:   in.plant.kW(),
	}
	c.Turbine = in.params.FloatOr("turbine_capex", 1300) * float64(in.plant.NumTurbines) * in.plant.TurbineRating * 1000

	soft, err := softCapex(in.params, c)
	if err != nil {
		return Capex{}, err
	}
	c.SoftBreakdown = soft
	c.Soft = sumValues(soft)

	breakdown := map[string]float64{}
	for name, cost := range in.systemCosts {
		breakdown[categoryOf(in.categories, name)] += cost
	}
	for name, cost := range in.installationCosts {
		breakdown[categoryOf(in.categories, name)+" Installation"] += cost
	}
	breakdown[CategoryTurbine] += c.Turbine
	breakdown[CategorySoft] += c.Soft
	breakdown[CategoryProject] += c.Project
	c.Breakdown = breakdown
	return c, nil
}

func categoryOf(categories map[string]string, phase string) string {
	if cat, ok := categories[phase]; ok && cat != "" {
		return cat
	}
	return CategoryMisc
}

func projectCapex(params config.Value) float64 {
	return params.FloatOr("site_auction_price", 122698898) +
		params.FloatOr("site_assessment_cost", 61349449) +
		params.FloatOr("construction_plan_cost", 1226989) +
		params.FloatOr("installation_plan_cost", 306747)
}

// softCapex follows the soft cost methodology of the 2022 Cost of Wind
// Energy Review. A per-kW override replaces the factor-based amount.
func softCapex(params config.Value, c Capex) (map[string]float64, error) {
	override := func(key string) (float64, bool) {
		if !params.Has(key) {
			return 0, false
		}
		return params.FloatOr(key, 0) * c.capacityKW, true
	}
	base := c.Turbine + c.BOS() + c.Project

	soft := map[string]float64{}
	if v, ok := override("construction_insurance"); ok {
		soft[SoftConstructionInsurance] = v
	} else {
		soft[SoftConstructionInsurance] = base * params.FloatOr("construction_insurance_factor", 0.0115)
	}
	if v, ok := override("decommissioning"); ok {
		soft[SoftDecommissioning] = v
	} else {
		soft[SoftDecommissioning] = c.Installation * params.FloatOr("decommissioning_factor", 0.175)
	}
	if v, ok := override("commissioning"); ok {
		soft[SoftCommissioning] = v
	} else {
		soft[SoftCommissioning] = base * params.FloatOr("commissioning_factor", 0.0115)
	}
	if v, ok := override("procurement_contingency"); ok {
		soft[SoftProcurementContingency] = v
	} else {
		soft[SoftProcurementContingency] = (base - c.Installation) * params.FloatOr("procurement_contingency_factor", 0.0575)
	}
	if v, ok := override("installation_contingency"); ok {
		soft[SoftInstallationContingency] = v
	} else {
		soft[SoftInstallationContingency] = c.Installation * params.FloatOr("installation_contingency_factor", 0.345)
	}

	if v, ok := override("construction_financing"); ok {
		soft[SoftConstructionFinancing] = v
		return soft, nil
	}
	factor := params.FloatOr("construction_financing_factor", math.NaN())
	if math.IsNaN(factor) {
		f, err := ConstructionFinancingFactor(params)
		if err != nil {
			return nil, err
		}
		factor = f
	}
	financed := soft[SoftConstructionInsurance] + soft[SoftDecommissioning] + soft[SoftCommissioning] +
		soft[SoftProcurementContingency] + soft[SoftInstallationContingency] + c.BOS() + c.Turbine
	soft[SoftConstructionFinancing] = financed * (factor - 1)
	return soft, nil
}

// DefaultSpendSchedule is the share of spend in each construction year
var DefaultSpendSchedule = map[int]float64{0: 0.25, 1: 0.25, 2: 0.3, 3: 0.1, 4: 0.1, 5: 0.0}

// ConstructionFinancingFactor derives the financing multiplier from the
// spend schedule, tax rate and interest during construction
func ConstructionFinancingFactor(params config.Value) (float64, error) {
	schedule, err := spendSchedule(params)
	if err != nil {
		return 0, err
	}
	tax := params.FloatOr("tax_rate", 0.26)
	interest := params.FloatOr("interest_during_construction", 0.044)

	years := make([]int, 0, len(schedule))
	for y := range schedule {
		years = append(years, y)
	}
	sort.Ints(years)

	check, factor := 0.0, 0.0
	for _, y := range years {
		share := schedule[y]
		check += share
		factor += share * (1 + (1-tax)*(math.Pow(1+interest, float64(y)+0.5)-1))
	}
	if math.Abs(check-1) > 1e-9 {
		return 0, shared.NewConfigurationError(KeyProjectParameters+".spend_schedule", "values must sum to 1.0")
	}
	return factor, nil
}

func spendSchedule(params config.Value) (map[int]float64, error) {
	raw, ok := params.Get("spend_schedule")
	if !ok {
		return DefaultSpendSchedule, nil
	}
	path := KeyProjectParameters + ".spend_schedule"
	if !raw.IsMap() {
		return nil, shared.NewConfigurationError(path, "must map construction years to spend shares")
	}
	out := map[int]float64{}
	for key, v := range raw.Entries() {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, shared.NewConfigurationError(path, "years must be integers")
		}
		share, ok := v.AsFloat()
		if !ok {
			return nil, shared.NewConfigurationError(path, "shares must be numbers")
		}
		out[year] = share
	}
	return out, nil
}

// sumValues adds map values in key order so totals are reproducible
func sumValues(m map[string]float64) float64 {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	total := 0.0
	for _, k := range keys {
		total += m[k]
	}
	return total
}
