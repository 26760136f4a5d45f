// Package vessel turns vessel specs into simulation agents and provides the
// site operations shared by installation phases.
package vessel

import (
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// Component names reported by MissingComponentError
const (
	ComponentTransport          = "Transport"
	ComponentCrane              = "Crane"
	ComponentJackingSystem      = "Jacking System"
	ComponentStorage            = "Vessel Storage"
	ComponentDynamicPositioning = "Dynamic Positioning"
	ComponentCableLay           = "Cable Lay System"
)

// Vessel is a simulation agent with capability specs
type Vessel struct {
	*simulation.Agent
	Specs Specs

	storage *Storage
}

// New creates a vessel named after its role in the phase, e.g. "WTIV" or
// "Feeder 1". Mobilization is charged at day rate × days × multiplier.
func New(name string, specs Specs) *Vessel {
	v := &Vessel{Agent: simulation.NewAgent(name, specs.Rates.DayRate), Specs: specs}
	if specs.Storage != nil {
		v.storage = newStorage(name, specs.Storage)
	}
	if days := specs.Rates.MobilizationDays; days > 0 {
		v.SetMobilization(days*24, specs.Rates.DayRate*days*specs.Rates.MobilizationMult)
	}
	return v
}

// FromConfig resolves a vessel reference (library name or inline mapping)
// found at path in cfg and builds the vessel
func FromConfig(name string, cfg config.Value, path string, lib *defaults.Library) (*Vessel, error) {
	ref, _ := cfg.Get(path)
	raw, err := lib.ResolveVessel(path, ref)
	if err != nil {
		return nil, err
	}
	specs, err := DecodeSpecs(raw)
	if err != nil {
		return nil, err
	}
	return New(name, specs), nil
}

func (v *Vessel) missing(components ...string) error {
	return shared.NewMissingComponentError(v.Name, components...)
}

func (v *Vessel) Transport() (*TransportSpecs, error) {
	if v.Specs.Transport == nil {
		return nil, v.missing(ComponentTransport)
	}
	return v.Specs.Transport, nil
}

func (v *Vessel) Crane() (*CraneSpecs, error) {
	if v.Specs.Crane == nil {
		return nil, v.missing(ComponentCrane)
	}
	return v.Specs.Crane, nil
}

func (v *Vessel) JackingSystem() (*JackingSpecs, error) {
	if v.Specs.Jacking == nil {
		return nil, v.missing(ComponentJackingSystem)
	}
	return v.Specs.Jacking, nil
}

func (v *Vessel) Storage() (*Storage, error) {
	if v.storage == nil {
		return nil, v.missing(ComponentStorage)
	}
	return v.storage, nil
}

func (v *Vessel) CableLay() (*CableLaySpecs, error) {
	if v.Specs.CableLay == nil {
		return nil, v.missing(ComponentCableLay)
	}
	return v.Specs.CableLay, nil
}

// HasDynamicPositioning reports whether the vessel holds position without jacking
func (v *Vessel) HasDynamicPositioning() bool {
	return v.Specs.DynamicPositioning != nil
}

// Require checks the vessel carries every listed component up front so a
// phase fails before its simulation starts
func (v *Vessel) Require(components ...string) error {
	var missing []string
	for _, c := range components {
		ok := true
		switch c {
		case ComponentTransport:
			ok = v.Specs.Transport != nil
		case ComponentCrane:
			ok = v.Specs.Crane != nil
		case ComponentJackingSystem:
			ok = v.Specs.Jacking != nil
		case ComponentStorage:
			ok = v.Specs.Storage != nil
		case ComponentDynamicPositioning:
			ok = v.Specs.DynamicPositioning != nil
		case ComponentCableLay:
			ok = v.Specs.CableLay != nil
		}
		if !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return v.missing(missing...)
	}
	return nil
}

// TransitLimits are the weather limits for sailing and positioning
func (v *Vessel) TransitLimits() weather.Constraint {
	t := v.Specs.Transport
	if t == nil {
		return weather.Constraint{}
	}
	return limits(t.MaxWindspeed, t.MaxWaveheight)
}

// OperationalLimits are the limits for lifting work: the crane's wind
// limit when present, otherwise the transport limits
func (v *Vessel) OperationalLimits() weather.Constraint {
	c := v.TransitLimits()
	if v.Specs.Crane != nil && v.Specs.Crane.MaxWindspeed > 0 {
		c.Windspeed = weather.Max(v.Specs.Crane.MaxWindspeed)
	}
	return c
}

func limits(wind, wave float64) weather.Constraint {
	var c weather.Constraint
	if wind > 0 {
		c.Windspeed = weather.Max(wind)
	}
	if wave > 0 {
		c.Waveheight = weather.Max(wave)
	}
	return c
}
