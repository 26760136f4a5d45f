package install

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

const (
	kindSubstructure = "Substructure"
	kindTopside      = "Topside"
)

// OffshoreSubstation installs substation substructures and lifts the
// topsides onto them with a heavy lift vessel
type OffshoreSubstation struct {
	*phase.InstallBase

	hlv     *vessel.Vessel
	feeders []*vessel.Vessel
}

func offshoreSubstationSchema() config.Schema {
	return config.Schema{
		"oss_install_vessel":                          vesselSchema(false),
		"feeder":                                      vesselSchema(true),
		"num_feeders":                                 config.Optional("int"),
		"num_substations":                             config.OptionalDefault("int", config.Int(1)),
		"site.depth":                                  config.Required("m"),
		"site.distance":                               config.Required("km"),
		"offshore_substation_topside.mass":            config.Required("t"),
		"offshore_substation_topside.deck_space":      config.Required("m2"),
		"offshore_substation_topside.unit_cost":       config.Required("USD"),
		"offshore_substation_substructure.mass":       config.Required("t"),
		"offshore_substation_substructure.length":     config.Required("m"),
		"offshore_substation_substructure.deck_space": config.Required("m2"),
		"offshore_substation_substructure.unit_cost":  config.Required("USD"),
	}.Union(phase.PortSchema())
}

func NewOffshoreSubstation(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("OffshoreSubstationInstallation", cfg, offshoreSubstationSchema(), opts)
	if err != nil {
		return nil, err
	}
	hlv, err := vessel.FromConfig("Heavy Lift Vessel", base.Config(), "oss_install_vessel", base.Library())
	if err != nil {
		return nil, err
	}
	if err := hlv.Require(vessel.ComponentTransport, vessel.ComponentCrane); err != nil {
		return nil, err
	}
	feeders, err := feedersFromConfig(base)
	if err != nil {
		return nil, err
	}
	return &OffshoreSubstation{InstallBase: base, hlv: hlv, feeders: feeders}, nil
}

func (p *OffshoreSubstation) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		times := p.Times()
		num := cfg.IntOr("num_substations", 1)

		p.SetSystemCapex(float64(num) * (cfg.FloatOr("offshore_substation_topside.unit_cost", 0) +
			cfg.FloatOr("offshore_substation_substructure.unit_cost", 0)))

		set := cargoSet{}.
			add(componentItem(cfg, kindSubstructure, "offshore_substation_substructure"), times.Get("mono_fasten_time")).
			add(componentItem(cfg, kindTopside, "offshore_substation_topside"), times.Get("topside_fasten_time"))

		c := &campaign{
			base:      p.InstallBase,
			installer: p.hlv,
			feeders:   p.feeders,
			set:       set,
			total:     num,
			site:      siteOf(cfg),
			install:   p.installSubstation,
		}
		return c.register(env)
	})
}

func (p *OffshoreSubstation) installSubstation(from func() (*vessel.Storage, error)) []simulation.Step {
	cfg := p.Config()
	times := p.Times()
	site := siteOf(cfg)
	ops := simulation.WithConstraint(p.hlv.OperationalLimits())
	rate := vessel.CraneRate(0)
	length := cfg.FloatOr("offshore_substation_substructure.length", 0)

	steps := p.hlv.PrepForSiteOperations(site, true, times)
	return append(steps,
		take(from, kindSubstructure),
		simulation.Task("Upend Substructure", length/rate, ops),
		simulation.Task("Lower Substructure", site.Depth/rate, ops),
		simulation.Task("Drive Substructure", times.Get("mono_embed_len")/times.Get("mono_drive_rate"), ops),
		simulation.Task("Release Substructure", times.Get("mono_release_time"), ops),
		take(from, kindTopside),
		simulation.Task("Lift Topside", length/rate, ops),
		simulation.Task("Attach Topside", times.Get("topside_attach_time"), ops),
		simulation.Task("Release Topside", times.Get("topside_release_time"), ops),
		p.hlv.JackdownIfRequired(site),
		simulation.Progress("Offshore Substation"),
	)
}

func (p *OffshoreSubstation) DetailedOutput() (config.Value, error) {
	out, err := p.InstallBase.DetailedOutput()
	if err != nil {
		return out, err
	}
	return out.With("vessel_utilization", utilization(append([]*vessel.Vessel{p.hlv}, p.feeders...)...)), nil
}
