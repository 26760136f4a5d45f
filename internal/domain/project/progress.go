package project

import (
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// Progress labels emitted by the installation phases
const (
	ProgressSubstructure       = "Substructure"
	ProgressTurbine            = "Turbine"
	ProgressArrayString        = "Array String"
	ProgressExportSystem       = "Export System"
	ProgressOffshoreSubstation = "Offshore Substation"
)

// ProjectProgress answers when parts of the plant can be energized from
// the progress points of every installation phase
type ProjectProgress struct {
	points []simulation.ProgressPoint
}

func NewProjectProgress(points []simulation.ProgressPoint) ProjectProgress {
	return ProjectProgress{points: points}
}

func (p ProjectProgress) times(label string) []float64 {
	var out []float64
	for _, pt := range p.points {
		if pt.Label == label {
			out = append(out, pt.Time)
		}
	}
	return out
}

func (p ProjectProgress) require(label string) ([]float64, error) {
	t := p.times(label)
	if len(t) == 0 {
		return nil, shared.NewDomainError(fmt.Sprintf("installed %q not found in project progress", label))
	}
	return t, nil
}

// Summary counts progress points per label for each 730 h month, months
// numbered from 1
func (p ProjectProgress) Summary() map[int]map[string]int {
	out := map[int]map[string]int{}
	for _, pt := range p.points {
		m := monthOf(pt.Time)
		if out[m] == nil {
			out[m] = map[string]int{}
		}
		out[m][pt.Label]++
	}
	return out
}

// CompleteExportSystem is the time the export cables and substations are
// all installed
func (p ProjectProgress) CompleteExportSystem() (float64, error) {
	times := append(p.times(ProgressExportSystem), p.times(ProgressOffshoreSubstation)...)
	if len(times) == 0 {
		return 0, shared.NewDomainError(fmt.Sprintf("installed %q not found in project progress", ProgressExportSystem))
	}
	return maxOf(times), nil
}

// CompleteArrayStrings returns, per array string, the time the string and
// the substructures and turbines on it are installed, with the turbine
// count of each string
func (p ProjectProgress) CompleteArrayStrings() ([]float64, []int, error) {
	arrayStrings, err := p.require(ProgressArrayString)
	if err != nil {
		return nil, nil, err
	}
	subs, err := p.require(ProgressSubstructure)
	if err != nil {
		return nil, nil, err
	}
	turbines, err := p.require(ProgressTurbine)
	if err != nil {
		return nil, nil, err
	}

	perString := (len(turbines) + len(arrayStrings) - 1) / len(arrayStrings)
	subMax := chunkMax(subs, perString)
	turbineMax := chunkMax(turbines, perString)
	counts := chunkLen(turbines, perString)

	n := min(len(arrayStrings), len(subMax), len(turbineMax))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = max(arrayStrings[i], subMax[i], turbineMax[i])
	}
	return out, counts, nil
}

// EnergizePoints are the times each array string can start generating,
// with the turbine count of each
func (p ProjectProgress) EnergizePoints() ([]float64, []int, error) {
	export, err := p.CompleteExportSystem()
	if err != nil {
		return nil, nil, err
	}
	times, turbines, err := p.CompleteArrayStrings()
	if err != nil {
		return nil, nil, err
	}
	points := make([]float64, len(times))
	for i, t := range times {
		points[i] = max(t, export)
	}
	return points, turbines, nil
}

func chunkMax(x []float64, n int) []float64 {
	var out []float64
	for i := 0; i < len(x); i += n {
		out = append(out, maxOf(x[i:min(i+n, len(x))]))
	}
	return out
}

func chunkLen(x []float64, n int) []int {
	var out []int
	for i := 0; i < len(x); i += n {
		out = append(out, min(i+n, len(x))-i)
	}
	return out
}

func maxOf(x []float64) float64 {
	m := x[0]
	for _, v := range x[1:] {
		m = max(m, v)
	}
	return m
}
