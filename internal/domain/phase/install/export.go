package install

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

// ExportCable lays the export cables from the landfall to the substation.
// Cables heavier than the carousel are laid in pieces joined by splices.
// Lay and burial pause through bad weather.
type ExportCable struct {
	*phase.InstallBase

	layer  *vessel.Vessel
	burier *vessel.Vessel
}

func exportCableSchema() config.Schema {
	return config.Schema{
		"export_cable_install_vessel":        vesselSchema(false),
		"export_cable_bury_vessel":           vesselSchema(true),
		"site.depth":                         config.Required("m"),
		"site.distance_to_landfall":          config.Required("km"),
		"export_system.sections":             config.Required("list"),
		"export_system.cable.linear_density": config.Required("t/km"),
		"export_system.system_cost":          config.Required("USD"),
	}.Union(phase.PortSchema())
}

func NewExportCable(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("ExportCableInstallation", cfg, exportCableSchema(), opts)
	if err != nil {
		return nil, err
	}
	layer, burier, err := cableVessels(base, "Export Cable Lay Vessel", "export_cable_install_vessel", "Export Cable Bury Vessel", "export_cable_bury_vessel")
	if err != nil {
		return nil, err
	}
	return &ExportCable{InstallBase: base, layer: layer, burier: burier}, nil
}

func (p *ExportCable) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		p.SetSystemCapex(cfg.FloatOr("export_system.system_cost", 0))

		groups, err := readSections(cfg, "export_system.sections")
		if err != nil {
			return err
		}
		density := cfg.FloatOr("export_system.cable.linear_density", 0)
		var pieces []cableSection
		for _, g := range groups {
			length := 0.0
			for _, l := range g {
				length += l
			}
			split, err := splitForCarousel(p.layer, length, density)
			if err != nil {
				return err
			}
			for i, l := range split {
				pieces = append(pieces, cableSection{length: l, piece: i, last: i == len(split)-1})
			}
		}

		distance := cfg.FloatOr("site.distance_to_landfall", 0)
		var laid *simulation.Signal
		if p.burier != nil {
			laid = simulation.NewSignal("Export Section Laid")
			p.burier.Location = locationPort
			p.burier.Then(simulation.Mobilize())
			p.burier.Then(burialSteps(p.burier, laid, pieces, distance, p.Times())...)
			env.Register(p.burier.Agent)
		}

		p.layer.Location = locationPort
		p.layer.Then(simulation.Mobilize())
		for _, piece := range pieces {
			p.layer.Then(p.layPiece(piece, laid, distance)...)
		}
		p.layer.Then(simulation.Progress("Export System"))
		env.Register(p.layer.Agent)

		p.AddDetail("num_cables", config.Int(len(groups)))
		p.AddDetail("num_splices", config.Int(len(pieces)-len(groups)))
		return nil
	})
}

func (p *ExportCable) layPiece(s cableSection, laid *simulation.Signal, distance float64) []simulation.Step {
	times := p.Times()
	v := p.layer
	ops := simulation.WithConstraint(v.OperationalLimits())

	steps := loadCarousel(p.Ports(), times)
	steps = append(steps, v.Transit(distance, "Landfall")...)
	steps = append(steps, v.PositionOnsite(times))
	if s.piece == 0 {
		steps = append(steps,
			simulation.Task("Prepare Cable", times.Get("cable_prep_time"), ops),
			simulation.Task("Lower Cable", times.Get("cable_lower_time"), ops),
			simulation.Task("Pull In Cable", times.Get("cable_pull_in_time"), ops),
			simulation.Task("Terminate Cable", times.Get("cable_termination_time"), ops),
		)
	} else {
		steps = append(steps,
			simulation.Task("Raise Cable", times.Get("cable_raise_time"), ops),
			simulation.Task("Splice Cable", times.Get("cable_splice_time"), ops),
		)
	}

	if laid == nil {
		steps = append(steps, simulation.Task("Lay/Bury Cable", s.length/times.Get("cable_lay_bury_speed"), ops, simulation.Suspendable()))
	} else {
		steps = append(steps, simulation.Task("Lay Cable", s.length/times.Get("cable_lay_speed"), ops, simulation.Suspendable()))
	}

	if s.last {
		steps = append(steps,
			simulation.Task("Pull In Cable", times.Get("cable_pull_in_time"), ops),
			simulation.Task("Terminate Cable", times.Get("cable_termination_time"), ops),
		)
	} else {
		steps = append(steps, simulation.Task("Lower Cable", times.Get("cable_lower_time"), ops))
	}
	if laid != nil {
		steps = append(steps, laid.Trigger())
	}
	return append(steps, v.Transit(distance, locationPort)...)
}
