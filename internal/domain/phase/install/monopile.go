package install

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

const (
	kindMonopile        = "Monopile"
	kindTransitionPiece = "Transition Piece"

	connectionBolted  = "bolted"
	connectionGrouted = "grouted"
)

// Monopile installs monopiles and transition pieces with a WTIV, optionally
// supplied by feeder barges
type Monopile struct {
	*phase.InstallBase

	wtiv    *vessel.Vessel
	feeders []*vessel.Vessel
}

func monopileSchema() config.Schema {
	return config.Schema{
		"wtiv":                        vesselSchema(false),
		"feeder":                      vesselSchema(true),
		"num_feeders":                 config.Optional("int"),
		"site.depth":                  config.Required("m"),
		"site.distance":               config.Required("km"),
		"plant.num_turbines":          config.Required("int"),
		"monopile.length":             config.Required("m"),
		"monopile.mass":               config.Required("t"),
		"monopile.deck_space":         config.Required("m2"),
		"monopile.unit_cost":          config.Required("USD"),
		"monopile.embedment_length":   config.Optional("m"),
		"transition_piece.mass":       config.Required("t"),
		"transition_piece.deck_space": config.Required("m2"),
		"transition_piece.unit_cost":  config.Required("USD"),
		"transition_piece.connection": config.OptionalDefault("str", config.String(connectionBolted)),
		"monopile_install.rov_survey": config.OptionalDefault("bool", config.Bool(true)),
	}.Union(phase.PortSchema())
}

func NewMonopile(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("MonopileInstallation", cfg, monopileSchema(), opts)
	if err != nil {
		return nil, err
	}
	wtiv, err := vessel.FromConfig("WTIV", base.Config(), "wtiv", base.Library())
	if err != nil {
		return nil, err
	}
	if err := wtiv.Require(vessel.ComponentTransport, vessel.ComponentCrane); err != nil {
		return nil, err
	}
	feeders, err := feedersFromConfig(base)
	if err != nil {
		return nil, err
	}
	return &Monopile{InstallBase: base, wtiv: wtiv, feeders: feeders}, nil
}

func (p *Monopile) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		times := p.Times()
		num := cfg.IntOr("plant.num_turbines", 0)

		p.SetSystemCapex(float64(num) * (cfg.FloatOr("monopile.unit_cost", 0) + cfg.FloatOr("transition_piece.unit_cost", 0)))

		set := cargoSet{}.
			add(componentItem(cfg, kindMonopile, "monopile"), times.Get("mono_fasten_time")).
			add(componentItem(cfg, kindTransitionPiece, "transition_piece"), times.Get("tp_fasten_time"))

		c := &campaign{
			base:      p.InstallBase,
			installer: p.wtiv,
			feeders:   p.feeders,
			set:       set,
			total:     num,
			site:      siteOf(cfg),
			install:   p.installSubstructure,
		}
		if err := c.register(env); err != nil {
			return err
		}
		p.AddDetail("num_feeders", config.Int(len(p.feeders)))
		return nil
	})
}

func (p *Monopile) installSubstructure(from func() (*vessel.Storage, error)) []simulation.Step {
	cfg := p.Config()
	times := p.Times()
	site := siteOf(cfg)
	ops := simulation.WithConstraint(p.wtiv.OperationalLimits())
	rate := vessel.CraneRate(0)

	embed := cfg.FloatOr("monopile.embedment_length", times.Get("mono_embed_len"))
	steps := p.wtiv.PrepForSiteOperations(site, cfg.BoolOr("monopile_install.rov_survey", true), times)
	steps = append(steps,
		take(from, kindMonopile),
		simulation.Task("Upend Monopile", cfg.FloatOr("monopile.length", 0)/rate, ops),
		simulation.Task("Lower Monopile", site.Depth/rate, ops),
		simulation.Task("Drive Monopile", embed/times.Get("mono_drive_rate"), ops),
		simulation.Task("Release Monopile", times.Get("mono_release_time"), ops),
		take(from, kindTransitionPiece),
		simulation.Task("Lower Transition Piece", (site.Depth+10)/rate, ops),
	)
	if cfg.StrOr("transition_piece.connection", connectionBolted) == connectionGrouted {
		steps = append(steps,
			simulation.Task("Pump Grout", times.Get("grout_pump_time"), ops),
			simulation.Task("Cure Grout", times.Get("grout_cure_time")),
		)
	} else {
		steps = append(steps, simulation.Task("Bolt Transition Piece", times.Get("tp_bolt_time"), ops))
	}
	return append(steps,
		simulation.Task("Release Transition Piece", times.Get("tp_release_time"), ops),
		p.wtiv.JackdownIfRequired(site),
		simulation.Progress("Substructure"),
	)
}

func (p *Monopile) DetailedOutput() (config.Value, error) {
	out, err := p.InstallBase.DetailedOutput()
	if err != nil {
		return out, err
	}
	return out.With("vessel_utilization", utilization(append([]*vessel.Vessel{p.wtiv}, p.feeders...)...)), nil
}
