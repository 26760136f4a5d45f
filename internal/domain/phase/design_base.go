package phase

import (
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// DesignBase implements the bookkeeping shared by design phases. Concrete
// phases embed it, compute their result in Run and hand it to Complete.
type DesignBase struct {
	name      string
	cfg       config.Value
	lib       *defaults.Library
	lifecycle *shared.LifecycleStateMachine

	result   config.Value
	cost     float64
	detailed config.Value
}

// NewDesignBase validates cfg against expected and applies its defaults
func NewDesignBase(name string, cfg config.Value, expected config.Schema, opts Options) (*DesignBase, error) {
	if err := config.Validate(cfg, expected); err != nil {
		return nil, err
	}
	d := &DesignBase{
		name:      name,
		cfg:       config.ApplyDefaults(cfg, expected),
		lib:       opts.library(),
		lifecycle: shared.NewLifecycleStateMachine(opts.clock()),
	}
	if err := d.lifecycle.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DesignBase) Name() string { return d.name }

// Status is the lifecycle state of the phase
func (d *DesignBase) Status() shared.LifecycleStatus { return d.lifecycle.Status() }

// Runtime is the wall-clock time of the latest run
func (d *DesignBase) Runtime() time.Duration { return d.lifecycle.Runtime() }

func (d *DesignBase) Config() config.Value { return d.cfg }

func (d *DesignBase) Library() *defaults.Library { return d.lib }

// Compute runs fn and stores its outputs. Re-running replaces the previous
// outputs only when fn succeeds.
func (d *DesignBase) Compute(fn func() (result config.Value, cost float64, detailed config.Value, err error)) error {
	if err := d.lifecycle.Start(); err != nil {
		return err
	}
	result, cost, detailed, err := fn()
	if err != nil {
		_ = d.lifecycle.Fail(err)
		return err
	}
	d.result, d.cost, d.detailed = result, cost, detailed
	return d.lifecycle.Complete()
}

func (d *DesignBase) complete() bool {
	return !d.result.IsNull()
}

func (d *DesignBase) DesignResult() (config.Value, error) {
	if !d.complete() {
		return config.Value{}, missingResult(d.name)
	}
	return d.result, nil
}

func (d *DesignBase) TotalCost() (float64, error) {
	if !d.complete() {
		return 0, missingResult(d.name)
	}
	return d.cost, nil
}

func (d *DesignBase) DetailedOutput() (config.Value, error) {
	if !d.complete() {
		return config.Value{}, missingResult(d.name)
	}
	if d.detailed.IsNull() {
		return config.EmptyMap(), nil
	}
	return d.detailed, nil
}
