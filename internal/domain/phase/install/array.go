package install

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

// ArrayCable lays the array strings between turbines. Without a separate
// bury vessel the lay vessel lays and buries in one pass.
type ArrayCable struct {
	*phase.InstallBase

	layer  *vessel.Vessel
	burier *vessel.Vessel
}

func arrayCableSchema() config.Schema {
	return config.Schema{
		"array_cable_install_vessel":        vesselSchema(false),
		"array_cable_bury_vessel":           vesselSchema(true),
		"site.depth":                        config.Required("m"),
		"site.distance":                     config.Required("km"),
		"array_system.sections":             config.Required("list"),
		"array_system.cable.linear_density": config.Required("t/km"),
		"array_system.system_cost":          config.Required("USD"),
	}.Union(phase.PortSchema())
}

func NewArrayCable(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("ArrayCableInstallation", cfg, arrayCableSchema(), opts)
	if err != nil {
		return nil, err
	}
	layer, burier, err := cableVessels(base, "Array Cable Lay Vessel", "array_cable_install_vessel", "Array Cable Bury Vessel", "array_cable_bury_vessel")
	if err != nil {
		return nil, err
	}
	return &ArrayCable{InstallBase: base, layer: layer, burier: burier}, nil
}

func cableVessels(base *phase.InstallBase, layName, layPath, buryName, buryPath string) (*vessel.Vessel, *vessel.Vessel, error) {
	cfg := base.Config()
	layer, err := vessel.FromConfig(layName, cfg, layPath, base.Library())
	if err != nil {
		return nil, nil, err
	}
	if err := layer.Require(vessel.ComponentTransport, vessel.ComponentCableLay); err != nil {
		return nil, nil, err
	}
	if !cfg.Has(buryPath) {
		return layer, nil, nil
	}
	burier, err := vessel.FromConfig(buryName, cfg, buryPath, base.Library())
	if err != nil {
		return nil, nil, err
	}
	if err := burier.Require(vessel.ComponentTransport); err != nil {
		return nil, nil, err
	}
	return layer, burier, nil
}

func (p *ArrayCable) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		p.SetSystemCapex(cfg.FloatOr("array_system.system_cost", 0))

		groups, err := readSections(cfg, "array_system.sections")
		if err != nil {
			return err
		}
		var sections []cableSection
		for _, g := range groups {
			for i, l := range g {
				sections = append(sections, cableSection{length: l, last: i == len(g)-1})
			}
		}
		density := cfg.FloatOr("array_system.cable.linear_density", 0)
		trips, err := carouselTrips(p.layer, sections, density)
		if err != nil {
			return err
		}

		var laid *simulation.Signal
		if p.burier != nil {
			laid = simulation.NewSignal("Array Section Laid")
			p.burier.Location = locationPort
			p.burier.Then(simulation.Mobilize())
			p.burier.Then(burialSteps(p.burier, laid, sections, cfg.FloatOr("site.distance", 0), p.Times())...)
			env.Register(p.burier.Agent)
		}

		p.layer.Location = locationPort
		p.layer.Then(simulation.Mobilize())
		for _, trip := range trips {
			p.layer.Then(p.trip(trip, laid)...)
		}
		env.Register(p.layer.Agent)

		p.AddDetail("num_trips", config.Int(len(trips)))
		p.AddDetail("num_sections", config.Int(len(sections)))
		return nil
	})
}

func (p *ArrayCable) trip(sections []cableSection, laid *simulation.Signal) []simulation.Step {
	times := p.Times()
	v := p.layer
	distance := p.Config().FloatOr("site.distance", 0)
	ops := simulation.WithConstraint(v.OperationalLimits())

	steps := loadCarousel(p.Ports(), times)
	steps = append(steps, v.Transit(distance, locationSite)...)
	for _, s := range sections {
		steps = append(steps,
			v.PositionOnsite(times),
			simulation.Task("Prepare Cable", times.Get("cable_prep_time"), ops),
			simulation.Task("Lower Cable", times.Get("cable_lower_time"), ops),
			simulation.Task("Pull In Cable", times.Get("cable_pull_in_time"), ops),
			simulation.Task("Terminate Cable", times.Get("cable_termination_time"), ops),
		)
		if laid == nil {
			steps = append(steps, simulation.Task("Lay/Bury Cable", s.length/times.Get("cable_lay_bury_speed"), ops))
		} else {
			steps = append(steps, simulation.Task("Lay Cable", s.length/times.Get("cable_lay_speed"), ops))
		}
		steps = append(steps,
			simulation.Task("Pull In Cable", times.Get("cable_pull_in_time"), ops),
			simulation.Task("Terminate Cable", times.Get("cable_termination_time"), ops),
		)
		if laid != nil {
			steps = append(steps, laid.Trigger())
		}
		if s.last {
			steps = append(steps, simulation.Progress("Array String"))
		}
	}
	return append(steps, v.Transit(distance, locationPort)...)
}
