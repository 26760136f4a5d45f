package install

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

const kindScourProtection = "Scour Protection"

// ScourProtection drops a rock layer around every substructure
type ScourProtection struct {
	*phase.InstallBase

	spi *vessel.Vessel
}

func scourProtectionSchema() config.Schema {
	return config.Schema{
		"spi_vessel":                               vesselSchema(false),
		"site.distance":                            config.Required("km"),
		"plant.num_turbines":                       config.Required("int"),
		"scour_protection.tonnes_per_substructure": config.Required("t"),
		"scour_protection.cost_per_tonne":          config.Required("USD/t"),
	}.Union(phase.PortSchema())
}

func NewScourProtection(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("ScourProtectionInstallation", cfg, scourProtectionSchema(), opts)
	if err != nil {
		return nil, err
	}
	spi, err := vessel.FromConfig("SPI Vessel", base.Config(), "spi_vessel", base.Library())
	if err != nil {
		return nil, err
	}
	if err := spi.Require(vessel.ComponentTransport, vessel.ComponentStorage); err != nil {
		return nil, err
	}
	return &ScourProtection{InstallBase: base, spi: spi}, nil
}

func (p *ScourProtection) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		num := cfg.IntOr("plant.num_turbines", 0)
		tonnes := cfg.FloatOr("scour_protection.tonnes_per_substructure", 0)
		p.SetSystemCapex(float64(num) * tonnes * cfg.FloatOr("scour_protection.cost_per_tonne", 0))

		rock := vessel.Item{Kind: kindScourProtection, Mass: tonnes}
		c := &campaign{
			base:      p.InstallBase,
			installer: p.spi,
			set:       cargoSet{}.addLoaded(rock, "Load SP Material", p.Times().Get("load_rocks_time")),
			total:     num,
			site:      siteOf(cfg),
			install:   p.dropRocks,
		}
		return c.register(env)
	})
}

func (p *ScourProtection) dropRocks(from func() (*vessel.Storage, error)) []simulation.Step {
	return []simulation.Step{
		p.spi.PositionOnsite(p.Times()),
		take(from, kindScourProtection),
		simulation.Task("Drop SP Material", p.Times().Get("drop_rocks_time"), simulation.WithConstraint(p.spi.OperationalLimits())),
		simulation.Progress("Scour Protection"),
	}
}

func (p *ScourProtection) DetailedOutput() (config.Value, error) {
	out, err := p.InstallBase.DetailedOutput()
	if err != nil {
		return out, err
	}
	return out.With("vessel_utilization", utilization(p.spi)), nil
}
