package project

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// Finance is the monthly cash flow of a project from construction through
// its operating lifetime. Months are numbered from 1.
type Finance struct {
	Expenses map[int]float64
	Opex     map[int]float64
	Revenue  map[int]float64
	CashFlow map[int]float64
	NPV      float64
}

// monthOf bins a project time into its 730 h month
func monthOf(hours float64) int {
	return int(math.Floor(math.Trunc(hours)/phase.HoursPerMonth)) + 1
}

// computeFinance bins action costs by month, adds operating costs and
// revenue from the energized turbines, and discounts the net cash flow
func computeFinance(actions []simulation.Action, progress ProjectProgress, capex Capex, plant plantSize, params config.Value) (*Finance, error) {
	points, turbines, err := progress.EnergizePoints()
	if err != nil {
		return nil, err
	}
	lifetime := int(params.FloatOr("project_lifetime", 25))
	months := lifetime * 12

	energized := make([]int, len(points))
	for i, t := range points {
		energized[i] = monthOf(t)
	}
	generating := func(month int) float64 {
		n := 0
		for _, m := range energized {
			if month >= m {
				n++
			}
		}
		total := 0
		for _, c := range turbines[:min(n, len(turbines))] {
			total += c
		}
		return float64(total)
	}

	rate := params.FloatOr("opex_rate", 150)
	ncf := params.FloatOr("ncf", 0.4)
	price := params.FloatOr("offtake_price", 80)

	spent := map[int]float64{}
	for _, a := range actions {
		spent[monthOf(a.End())] += a.Cost
	}

	f := &Finance{
		Expenses: map[int]float64{},
		Opex:     map[int]float64{},
		Revenue:  map[int]float64{},
		CashFlow: map[int]float64{},
	}
	for i := 1; i < months; i++ {
		capacity := generating(i) * plant.TurbineRating
		f.Opex[i] = capacity * rate * 1000 / 12
		f.Expenses[i] = spent[i] + f.Opex[i]
		f.Revenue[i] = capacity * ncf * phase.HoursPerMonth * price
		f.CashFlow[i] = f.Revenue[i] - f.Expenses[i]
	}

	monthly := math.Pow(1+params.FloatOr("discount_rate", 0.025), 1.0/12) - 1
	discounted := 0.0
	for i := 1; i < months; i++ {
		discounted += f.CashFlow[i] / math.Pow(1+monthly, float64(i))
	}
	f.NPV = (capex.Total() - capex.Installation) - discounted
	return f, nil
}
