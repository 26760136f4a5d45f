package install

import (
	"fmt"
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

// cableSection is one length of cable laid in a single pass
type cableSection struct {
	length float64 // km
	// last marks the end of an array string or export cable
	last bool
	// piece is the splice index within an export cable
	piece int
}

// readSections reads a list of section groups, e.g. [[1.2, 1.5], [1.3]]
func readSections(cfg config.Value, path string) ([][]float64, error) {
	v, ok := cfg.Get(path)
	if !ok {
		return nil, shared.NewMissingInputsError([]string{path})
	}
	if !v.IsSeq() {
		return nil, shared.NewConfigurationError(path, "expected a list of section lists")
	}
	var groups [][]float64
	for i, g := range v.Items() {
		items := []config.Value{g}
		if g.IsSeq() {
			items = g.Items()
		}
		var group []float64
		for _, item := range items {
			l, ok := item.AsFloat()
			if !ok || l <= 0 {
				return nil, shared.NewConfigurationError(fmt.Sprintf("%s.%d", path, i), "section lengths must be positive numbers")
			}
			group = append(group, l)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// carouselTrips groups sections into trips whose cable mass fits the carousel
func carouselTrips(v *vessel.Vessel, sections []cableSection, density float64) ([][]cableSection, error) {
	lay, err := v.CableLay()
	if err != nil {
		return nil, err
	}
	var trips [][]cableSection
	var trip []cableSection
	mass := 0.0
	for _, s := range sections {
		m := s.length * density
		if m > lay.MaxMass+1e-9 {
			return nil, shared.NewVesselCapacityError(v.Name, fmt.Sprintf("%.2f km cable section", s.length))
		}
		if mass+m > lay.MaxMass+1e-9 {
			trips = append(trips, trip)
			trip, mass = nil, 0
		}
		trip = append(trip, s)
		mass += m
	}
	if len(trip) > 0 {
		trips = append(trips, trip)
	}
	return trips, nil
}

// splitForCarousel cuts a cable into pieces no heavier than the carousel limit
func splitForCarousel(v *vessel.Vessel, length, density float64) ([]float64, error) {
	lay, err := v.CableLay()
	if err != nil {
		return nil, err
	}
	maxLength := lay.MaxMass / density
	n := int(math.Ceil(length/maxLength - 1e-9))
	if n < 1 {
		n = 1
	}
	pieces := make([]float64, n)
	for i := range pieces {
		pieces[i] = length / float64(n)
	}
	return pieces, nil
}

func loadCarousel(port *phase.Port, times defaults.ProcessTimes) []simulation.Step {
	return port.Cranes.Hold(
		simulation.Task("Lift Carousel", times.Get("carousel_lift_time"), simulation.At(locationPort)),
		simulation.Task("Fasten Carousel", times.Get("carousel_fasten_time"), simulation.At(locationPort)),
	)
}

// burialSteps has the bury vessel follow the lay vessel, burying each
// section once the laid signal reports it
func burialSteps(b *vessel.Vessel, laid *simulation.Signal, sections []cableSection, distance float64, times defaults.ProcessTimes) []simulation.Step {
	ops := simulation.WithConstraint(b.OperationalLimits())
	steps := b.Transit(distance, locationSite)
	steps = append(steps, simulation.Repeat(len(sections), func(i int) []simulation.Step {
		return []simulation.Step{
			laid.Wait(),
			b.PositionOnsite(times),
			simulation.Task("Bury Cable", sections[i].length/times.Get("cable_bury_speed"), ops, simulation.Suspendable()),
		}
	}))
	return append(steps, b.Transit(distance, locationPort)...)
}
