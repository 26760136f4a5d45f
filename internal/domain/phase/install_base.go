package phase

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// InstallBase owns the environment, port and lifecycle of an installation
// phase. Concrete phases embed it and pass their agent setup to Execute.
type InstallBase struct {
	name      string
	cfg       config.Value
	lib       *defaults.Library
	times     defaults.ProcessTimes
	env       *simulation.Environment
	port      *Port
	maxHours  float64
	lifecycle *shared.LifecycleStateMachine

	systemCapex float64
	details     map[string]config.Value
	actions     []simulation.Action
	phaseTime   float64
}

// NewInstallBase validates cfg against expected, applies defaults and
// prepares an environment over the phase weather window
func NewInstallBase(name string, cfg config.Value, expected config.Schema, opts Options) (*InstallBase, error) {
	if err := config.Validate(cfg, expected); err != nil {
		return nil, err
	}
	cfg = config.ApplyDefaults(cfg, expected)
	lib := opts.library()

	b := &InstallBase{
		name:      name,
		cfg:       cfg,
		lib:       lib,
		times:     lib.Times(cfg),
		env:       simulation.NewEnvironment(name, opts.Weather),
		port:      NewPort(cfg, lib),
		maxHours:  opts.MaxHours,
		lifecycle: shared.NewLifecycleStateMachine(opts.clock()),
		details:   map[string]config.Value{},
	}
	if err := b.lifecycle.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *InstallBase) Name() string { return b.name }

// Status is the lifecycle state of the phase
func (b *InstallBase) Status() shared.LifecycleStatus { return b.lifecycle.Status() }

// Runtime is the wall-clock time of the latest run
func (b *InstallBase) Runtime() time.Duration { return b.lifecycle.Runtime() }

func (b *InstallBase) Config() config.Value { return b.cfg }

func (b *InstallBase) Library() *defaults.Library { return b.lib }

func (b *InstallBase) Times() defaults.ProcessTimes { return b.times }

func (b *InstallBase) Env() *simulation.Environment { return b.env }

func (b *InstallBase) Ports() *Port { return b.port }

// SetSystemCapex records the cost of the components the phase installs
func (b *InstallBase) SetSystemCapex(cost float64) { b.systemCapex = cost }

// AddDetail adds an entry to the detailed output
func (b *InstallBase) AddDetail(key string, v config.Value) { b.details[key] = v }

// Execute registers the phase agents through setup and runs the environment
// to quiescence or the configured limit
func (b *InstallBase) Execute(ctx context.Context, setup func(env *simulation.Environment) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.lifecycle.Status() != shared.LifecycleStatusValidated {
		return fmt.Errorf("phase %s has already run", b.name)
	}
	if err := b.lifecycle.Start(); err != nil {
		return err
	}
	if err := setup(b.env); err != nil {
		_ = b.lifecycle.Fail(err)
		return err
	}
	if err := b.env.Run(b.maxHours); err != nil {
		_ = b.lifecycle.Fail(err)
		return err
	}

	actions := b.env.Actions()
	for i := range actions {
		actions[i].Phase = b.name
	}
	b.actions = actions
	b.phaseTime = simulation.Span(actions)
	return b.lifecycle.Complete()
}

func (b *InstallBase) completed() error {
	if !b.lifecycle.IsComplete() {
		return shared.ErrPhaseNotComplete
	}
	return nil
}

func (b *InstallBase) SystemCapex() (float64, error) {
	if err := b.completed(); err != nil {
		return 0, err
	}
	return b.systemCapex, nil
}

// InstallationCapex is the cost of every logged action plus port rental
func (b *InstallBase) InstallationCapex() (float64, error) {
	if err := b.completed(); err != nil {
		return 0, err
	}
	return simulation.TotalCost(b.actions) + b.portCost(), nil
}

// TotalCost of an installation phase is its installation capex
func (b *InstallBase) TotalCost() (float64, error) {
	return b.InstallationCapex()
}

// TotalPhaseTime is the latest action end relative to the phase start
func (b *InstallBase) TotalPhaseTime() (float64, error) {
	if err := b.completed(); err != nil {
		return 0, err
	}
	return b.phaseTime, nil
}

func (b *InstallBase) Actions() []simulation.Action {
	return append([]simulation.Action(nil), b.actions...)
}

func (b *InstallBase) Progress() []simulation.ProgressPoint {
	return b.env.Progress()
}

// DebugLog returns the environment's debug entries
func (b *InstallBase) DebugLog() []simulation.LogEntry {
	return b.env.DebugLog()
}

func (b *InstallBase) portCost() float64 {
	return PortCost(b.phaseTime, b.port.MonthlyRate)
}

func (b *InstallBase) Port() PortUsage {
	return PortUsage{
		Name:        b.port.Name,
		Shared:      b.port.Shared,
		MonthlyRate: b.port.MonthlyRate,
		Start:       0,
		End:         b.phaseTime,
		Cost:        b.portCost(),
	}
}

func (b *InstallBase) DetailedOutput() (config.Value, error) {
	if err := b.completed(); err != nil {
		return config.Value{}, err
	}
	out := config.Map(b.details)
	out = out.With("port_cost", config.Number(b.portCost()))
	out = out.With("num_actions", config.Int(len(b.actions)))
	return out, nil
}
