package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

func points(label string, times ...float64) []simulation.ProgressPoint {
	out := make([]simulation.ProgressPoint, len(times))
	for i, t := range times {
		out[i] = simulation.ProgressPoint{Label: label, Time: t}
	}
	return out
}

func plantProgress() ProjectProgress {
	var pts []simulation.ProgressPoint
	pts = append(pts, points(ProgressSubstructure, 10, 20, 30, 40, 50)...)
	pts = append(pts, points(ProgressTurbine, 100, 200, 300, 400, 500)...)
	pts = append(pts, points(ProgressArrayString, 250, 260)...)
	pts = append(pts, points(ProgressExportSystem, 150)...)
	pts = append(pts, points(ProgressOffshoreSubstation, 220)...)
	return NewProjectProgress(pts)
}

func TestProjectProgress_CompleteArrayStrings(t *testing.T) {
	times, turbines, err := plantProgress().CompleteArrayStrings()

	require.NoError(t, err)
	assert.Equal(t, []float64{300, 500}, times)
	assert.Equal(t, []int{3, 2}, turbines)
}

func TestProjectProgress_EnergizePointsWaitForExport(t *testing.T) {
	pts := append(plantProgress().points, points(ProgressExportSystem, 400)...)

	times, _, err := NewProjectProgress(pts).EnergizePoints()

	require.NoError(t, err)
	assert.Equal(t, []float64{400, 500}, times)
}

func TestProjectProgress_MissingLabels(t *testing.T) {
	_, _, err := NewProjectProgress(points(ProgressTurbine, 1)).EnergizePoints()
	assert.Error(t, err)

	_, _, err = NewProjectProgress(points(ProgressExportSystem, 1)).CompleteArrayStrings()
	assert.Error(t, err)
}

func TestProjectProgress_SummaryByMonth(t *testing.T) {
	s := NewProjectProgress(points(ProgressTurbine, 0, 729.9, 730, 1500)).Summary()

	assert.Equal(t, 2, s[1][ProgressTurbine])
	assert.Equal(t, 1, s[2][ProgressTurbine])
	assert.Equal(t, 1, s[3][ProgressTurbine])
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, 1, monthOf(0))
	assert.Equal(t, 1, monthOf(729.99))
	assert.Equal(t, 2, monthOf(730))
}

func TestComputeFinance_RevenueStartsWhenStringsEnergize(t *testing.T) {
	// Arrange
	var pts []simulation.ProgressPoint
	pts = append(pts, points(ProgressSubstructure, 10, 20, 30, 40, 50)...)
	pts = append(pts, points(ProgressTurbine, 100, 200, 300, 400, 1600)...)
	pts = append(pts, points(ProgressArrayString, 250, 260)...)
	pts = append(pts, points(ProgressExportSystem, 150)...)
	actions := []simulation.Action{
		{Start: 0, Duration: 10, Cost: 1000},
		{Start: 800, Duration: 10, Cost: 500},
	}
	plant := plantSize{Capacity: 50, NumTurbines: 5, TurbineRating: 10}
	p := config.MustFromAny(map[string]interface{}{
		"project_lifetime": 1,
		"opex_rate":        120,
		"ncf":              0.5,
		"offtake_price":    100,
		"discount_rate":    0,
	})

	// Act
	f, err := computeFinance(actions, NewProjectProgress(pts), Capex{}, plant, p)

	// Assert
	require.NoError(t, err)
	assert.Len(t, f.CashFlow, 11)
	assert.InDelta(t, 30*0.5*730*100, f.Revenue[1], 1e-6)
	assert.InDelta(t, 30*0.5*730*100, f.Revenue[2], 1e-6)
	assert.InDelta(t, 50*0.5*730*100, f.Revenue[3], 1e-6)
	assert.InDelta(t, 1000+30*120*1000/12, f.Expenses[1], 1e-6)
	assert.InDelta(t, 500+30*120*1000/12, f.Expenses[2], 1e-6)
	assert.InDelta(t, 50*120*1000/12, f.Opex[11], 1e-6)

	total := 0.0
	for _, cf := range f.CashFlow {
		total += cf
	}
	assert.InDelta(t, -total, f.NPV, 1e-6)
}
