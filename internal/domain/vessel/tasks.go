package vessel

import (
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

const (
	defaultSiteDepth = 40.0
	extensionMargin  = 10.0
)

// Site describes where site operations happen
type Site struct {
	Depth     float64 // m
	Distance  float64 // km from port
	Extension float64 // jack-up leg extension, m; zero means depth + 10
}

func (s Site) depth() float64 {
	if s.Depth <= 0 {
		return defaultSiteDepth
	}
	return s.Depth
}

func (s Site) extension() float64 {
	if s.Extension > 0 {
		return s.Extension
	}
	return s.depth() + extensionMargin
}

// JackingTime is the time in hours to jack the hull to the given leg
// extension at the given depth
func (j *JackingSpecs) JackingTime(extension, depth float64) float64 {
	if extension < depth {
		extension = depth
	}
	return (depth/j.SpeedBelowDepth + (extension-depth)/j.SpeedAboveDepth) / 60
}

// CraneRate is the crane hoist rate in m/h for a given wave height
func CraneRate(waveHeight float64) float64 {
	if waveHeight <= 0 {
		waveHeight = 2
	}
	return 0.6 * waveHeight * 3600
}

// TransitTime is the time in hours to sail distance km
func (v *Vessel) TransitTime(distance float64) (float64, error) {
	t, err := v.Transport()
	if err != nil {
		return 0, err
	}
	return distance / t.TransitSpeed, nil
}

// Transit sails to location. Transit pauses through bad weather.
func (v *Vessel) Transit(distance float64, location string) []simulation.Step {
	return []simulation.Step{
		simulation.Do(func(a *simulation.Agent) error {
			hours, err := v.TransitTime(distance)
			if err != nil {
				return err
			}
			a.Push(
				simulation.Task("Transit", hours, simulation.WithConstraint(v.TransitLimits()), simulation.Suspendable()),
				simulation.MoveTo(location),
			)
			return nil
		}),
	}
}

// PositionOnsite holds the vessel in position at the site
func (v *Vessel) PositionOnsite(times defaults.ProcessTimes) simulation.Step {
	return simulation.Task("Position Onsite", times.Get("site_position_time"), simulation.WithConstraint(v.TransitLimits()))
}

// Stabilize is a no-op for dynamic positioning vessels and a jack-up for
// jacking vessels. A vessel with neither fails with MissingComponentError.
func (v *Vessel) Stabilize(site Site) simulation.Step {
	return simulation.Do(func(a *simulation.Agent) error {
		if v.HasDynamicPositioning() {
			return nil
		}
		if v.Specs.Jacking == nil {
			return v.missing(ComponentDynamicPositioning, ComponentJackingSystem)
		}
		hours := v.Specs.Jacking.JackingTime(site.extension(), site.depth())
		a.Push(simulation.Task("Jackup", hours, simulation.WithConstraint(v.TransitLimits())))
		return nil
	})
}

// JackdownIfRequired lowers the hull of jacking vessels
func (v *Vessel) JackdownIfRequired(site Site) simulation.Step {
	return simulation.Do(func(a *simulation.Agent) error {
		if v.Specs.Jacking == nil || v.HasDynamicPositioning() {
			return nil
		}
		hours := v.Specs.Jacking.JackingTime(site.extension(), site.depth())
		a.Push(simulation.Task("Jackdown", hours, simulation.WithConstraint(v.TransitLimits())))
		return nil
	})
}

// PrepForSiteOperations positions and stabilizes the vessel, surveying the
// seabed with an ROV first when survey is set
func (v *Vessel) PrepForSiteOperations(site Site, survey bool, times defaults.ProcessTimes) []simulation.Step {
	steps := []simulation.Step{v.PositionOnsite(times), v.Stabilize(site)}
	if survey {
		steps = append(steps, simulation.Task("RovSurvey", times.Get("rov_survey_time"), simulation.WithConstraint(v.TransitLimits())))
	}
	return steps
}

// RecordTrip snapshots the storage load for trip statistics
func (v *Vessel) RecordTrip() simulation.Step {
	return simulation.Do(func(*simulation.Agent) error {
		if v.storage != nil {
			v.storage.RecordTrip()
		}
		return nil
	})
}
