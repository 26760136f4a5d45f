// Package phase defines the design and installation phase contracts and the
// registry the orchestrator resolves phase names against.
package phase

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// Kind distinguishes design from installation phases
type Kind string

const (
	KindDesign  Kind = "design"
	KindInstall Kind = "install"
)

// Design is a pure sizing and costing step
type Design interface {
	Name() string
	Run() error
	// DesignResult is merged into the project config for later phases
	DesignResult() (config.Value, error)
	TotalCost() (float64, error)
	DetailedOutput() (config.Value, error)
}

// Install is a discrete-event simulation of an installation campaign
type Install interface {
	Name() string
	Run(ctx context.Context) error
	SystemCapex() (float64, error)
	InstallationCapex() (float64, error)
	TotalCost() (float64, error)
	TotalPhaseTime() (float64, error)
	Actions() []simulation.Action
	DetailedOutput() (config.Value, error)
	Progress() []simulation.ProgressPoint
	Port() PortUsage
}

// Options carries what every phase constructor receives besides its config
type Options struct {
	Library *defaults.Library
	// Weather is positioned at the phase start; nil means no weather limits
	Weather *weather.Window
	// MaxHours bounds the simulated duration; zero means unbounded
	MaxHours float64
	Clock    shared.Clock
}

func (o Options) library() *defaults.Library {
	if o.Library == nil {
		return defaults.MustBuiltin()
	}
	return o.Library
}

func (o Options) clock() shared.Clock {
	if o.Clock == nil {
		return shared.NewRealClock()
	}
	return o.Clock
}

type (
	DesignFactory  func(cfg config.Value, opts Options) (Design, error)
	InstallFactory func(cfg config.Value, opts Options) (Install, error)
)

// Registration is the static metadata of a phase; schemas are available
// without constructing the phase
type Registration struct {
	Name     string
	Kind     Kind
	Category string
	Expected config.Schema
	// Output lists the paths a design phase produces
	Output     config.Schema
	NewDesign  DesignFactory
	NewInstall InstallFactory
}

// InstallationCategory is the capex breakdown category for installation costs
func (r Registration) InstallationCategory() string {
	return r.Category + " Installation"
}

func missingResult(name string) error {
	return shared.NewMissingInputsError([]string{name + ".design_result"})
}
