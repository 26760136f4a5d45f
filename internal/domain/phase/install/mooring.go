package install

import (
	"context"
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/design"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

const (
	kindMooringSystem = "Mooring System"

	mooringMethodStandard = "standard"
)

// MooringSystem carries complete mooring systems out from port and sets the
// anchors and lines of one substructure per stop
type MooringSystem struct {
	*phase.InstallBase

	installer *vessel.Vessel
}

func mooringSystemSchema() config.Schema {
	return config.Schema{
		"mooring_install_vessel":                    vesselSchema(false),
		"site.depth":                                config.Required("m"),
		"site.distance":                             config.Required("km"),
		"plant.num_turbines":                        config.Required("int"),
		"mooring_system.num_lines":                  config.Required("int"),
		"mooring_system.line_mass":                  config.Required("t"),
		"mooring_system.anchor_mass":                config.Required("t"),
		"mooring_system.anchor_type":                config.OptionalDefault("str", config.String(design.AnchorSuctionPile)),
		"mooring_system.system_cost":                config.Required("USD"),
		"mooring_system_design.installation_method": config.OptionalDefault("str", config.String(mooringMethodStandard)),
	}.Union(phase.PortSchema())
}

func NewMooringSystem(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("MooringSystemInstallation", cfg, mooringSystemSchema(), opts)
	if err != nil {
		return nil, err
	}
	if method := base.Config().StrOr("mooring_system_design.installation_method", mooringMethodStandard); method != mooringMethodStandard {
		return nil, shared.NewConfigurationError("mooring_system_design.installation_method", fmt.Sprintf("unsupported installation method %q", method))
	}
	if _, err := anchorTask(base.Config().StrOr("mooring_system.anchor_type", design.AnchorSuctionPile)); err != nil {
		return nil, err
	}
	installer, err := vessel.FromConfig("Mooring System Installation Vessel", base.Config(), "mooring_install_vessel", base.Library())
	if err != nil {
		return nil, err
	}
	if err := installer.Require(vessel.ComponentTransport, vessel.ComponentStorage); err != nil {
		return nil, err
	}
	return &MooringSystem{InstallBase: base, installer: installer}, nil
}

// anchorInstall names the action and the process time key for one anchor type
type anchorInstall struct {
	action  string
	timeKey string
}

func anchorTask(anchorType string) (anchorInstall, error) {
	switch anchorType {
	case design.AnchorSuctionPile:
		return anchorInstall{"Install Suction Pile Anchor", "suction_pile_install_time"}, nil
	case design.AnchorDragEmbedment:
		return anchorInstall{"Install Drag Embedment Anchor", "drag_embed_install_time"}, nil
	case design.AnchorDandGPile:
		return anchorInstall{"Install D&G Pile Anchor", "dandg_pile_install_time"}, nil
	}
	return anchorInstall{}, shared.NewConfigurationError("mooring_system.anchor_type", fmt.Sprintf("unknown anchor type %q", anchorType))
}

func (p *MooringSystem) Run(ctx context.Context) error {
	return p.Execute(ctx, func(env *simulation.Environment) error {
		cfg := p.Config()
		p.SetSystemCapex(cfg.FloatOr("mooring_system.system_cost", 0))

		lines := cfg.IntOr("mooring_system.num_lines", 0)
		system := vessel.Item{
			Kind: kindMooringSystem,
			Mass: float64(lines) * (cfg.FloatOr("mooring_system.line_mass", 0) + cfg.FloatOr("mooring_system.anchor_mass", 0)),
		}
		c := &campaign{
			base:      p.InstallBase,
			installer: p.installer,
			set:       cargoSet{}.addLoaded(system, "Load Mooring System", p.Times().Get("mooring_system_load_time")),
			total:     cfg.IntOr("plant.num_turbines", 0),
			site:      siteOf(cfg),
			install:   p.installSystem,
		}
		return c.register(env)
	})
}

func (p *MooringSystem) installSystem(from func() (*vessel.Storage, error)) []simulation.Step {
	cfg := p.Config()
	depth := cfg.FloatOr("site.depth", 0)
	anchor, _ := anchorTask(cfg.StrOr("mooring_system.anchor_type", design.AnchorSuctionPile))
	limits := simulation.WithConstraint(p.installer.TransitLimits())

	steps := []simulation.Step{take(from, kindMooringSystem)}
	steps = append(steps, simulation.Repeat(cfg.IntOr("mooring_system.num_lines", 0), func(int) []simulation.Step {
		return []simulation.Step{
			p.installer.PositionOnsite(p.Times()),
			simulation.Task("Perform Mooring Site Survey", p.Times().Get("mooring_site_survey_time"), limits),
			simulation.Task(anchor.action, p.Times().Get(anchor.timeKey)+0.005*depth, limits),
			simulation.Task("Install Mooring Line", 0.005*depth, limits),
		}
	}))
	return append(steps, simulation.Progress(kindMooringSystem))
}

func (p *MooringSystem) DetailedOutput() (config.Value, error) {
	out, err := p.InstallBase.DetailedOutput()
	if err != nil {
		return out, err
	}
	return out.With("vessel_utilization", utilization(p.installer)), nil
}
