package install

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

const (
	kindTower   = "Tower"
	kindNacelle = "Nacelle"
	kindBlade   = "Blade"

	bladesPerTurbine = 3
)

// Turbine installs towers, nacelles and blades on installed substructures
type Turbine struct {
	*phase.InstallBase

	wtiv    *vessel.Vessel
	feeders []*vessel.Vessel
}

func turbineSchema() config.Schema {
	return config.Schema{
		"wtiv":                       vesselSchema(false),
		"feeder":                     vesselSchema(true),
		"num_feeders":                config.Optional("int"),
		"site.depth":                 config.Required("m"),
		"site.distance":              config.Required("km"),
		"plant.num_turbines":         config.Required("int"),
		"turbine.hub_height":         config.Required("m"),
		"turbine.tower.mass":         config.Required("t"),
		"turbine.tower.deck_space":   config.Required("m2"),
		"turbine.nacelle.mass":       config.Required("t"),
		"turbine.nacelle.deck_space": config.Required("m2"),
		"turbine.blade.mass":         config.Required("t"),
		"turbine.blade.deck_space":   config.Required("m2"),
	}.Union(phase.PortSchema())
}

func NewTurbine(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("TurbineInstallation", cfg, turbineSchema(), opts)
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
	return &Turbine{InstallBase: base, wtiv: wtiv, feeders: feeders}, nil
}

// Run installs every turbine. Turbine supply cost is charged at project
// level, so the phase reports no system capex.
func (p *Turbine) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		times := p.Times()

		set := cargoSet{}.
			add(componentItem(cfg, kindTower, "turbine.tower"), times.Get("tower_fasten_time")).
			add(componentItem(cfg, kindNacelle, "turbine.nacelle"), times.Get("nacelle_fasten_time"))
		for i := 0; i < bladesPerTurbine; i++ {
			set = set.add(componentItem(cfg, kindBlade, "turbine.blade"), times.Get("blade_fasten_time"))
		}

		c := &campaign{
			base:      p.InstallBase,
			installer: p.wtiv,
			feeders:   p.feeders,
			set:       set,
			total:     cfg.IntOr("plant.num_turbines", 0),
			site:      siteOf(cfg),
			install:   p.installTurbine,
		}
		p.AddDetail("num_feeders", config.Int(len(p.feeders)))
		return c.register(env)
	})
}

// lift raises a component to hub height, attaches and releases it
func (p *Turbine) lift(from func() (*vessel.Storage, error), kind string) []simulation.Step {
	times := p.Times()
	ops := simulation.WithConstraint(p.wtiv.OperationalLimits())
	height := p.Config().FloatOr("turbine.hub_height", 0)
	key := map[string]string{kindTower: "tower", kindNacelle: "nacelle", kindBlade: "blade"}[kind]

	return []simulation.Step{
		take(from, kind),
		simulation.Task("Lift "+kind, height/vessel.CraneRate(0), ops),
		simulation.Task("Attach "+kind, times.Get(key+"_attach_time"), ops),
		simulation.Task("Release "+kind, times.Get(key+"_release_time"), ops),
	}
}

func (p *Turbine) installTurbine(from func() (*vessel.Storage, error)) []simulation.Step {
	cfg := p.Config()
	site := siteOf(cfg)

	steps := p.wtiv.PrepForSiteOperations(site, false, p.Times())
	steps = append(steps, p.lift(from, kindTower)...)
	steps = append(steps, p.lift(from, kindNacelle)...)
	for i := 0; i < bladesPerTurbine; i++ {
		steps = append(steps, p.lift(from, kindBlade)...)
	}
	return append(steps,
		p.wtiv.JackdownIfRequired(site),
		simulation.Progress("Turbine"),
	)
}

func (p *Turbine) DetailedOutput() (config.Value, error) {
	out, err := p.InstallBase.DetailedOutput()
	if err != nil {
		return out, err
	}
	return out.With("vessel_utilization", utilization(append([]*vessel.Vessel{p.wtiv}, p.feeders...)...)), nil
}
