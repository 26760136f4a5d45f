package simulation

import (
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

const epsilon = 1e-9

// MobilizeAction is the action name logged for vessel mobilization
const MobilizeAction = "Mobilize"

// Step is one unit of agent behaviour. run returns blocked=true when the
// agent must wait for the environment to wake it.
type Step interface {
	run(a *Agent) (blocked bool, err error)
}

// TaskOption configures a task step
type TaskOption func(*taskStep)

// WithConstraint sets the weather limits the task must operate within
func WithConstraint(c weather.Constraint) TaskOption {
	return func(t *taskStep) { t.constraint = c }
}

// Suspendable lets the task pause through non-compliant hours instead of
// waiting for one contiguous window
func Suspendable() TaskOption {
	return func(t *taskStep) { t.suspendable = true }
}

// WithCost replaces the day-rate cost of the task by a fixed amount
func WithCost(cost float64) TaskOption {
	return func(t *taskStep) {
		t.cost = cost
		t.fixedCost = true
	}
}

// AsOperation logs the task at OPERATION level
func AsOperation() TaskOption {
	return func(t *taskStep) { t.level = LevelOperation }
}

// At sets the location logged with the task
func At(location string) TaskOption {
	return func(t *taskStep) { t.location = location }
}

type taskStep struct {
	name        string
	hours       float64
	constraint  weather.Constraint
	suspendable bool
	cost        float64
	fixedCost   bool
	level       Level
	location    string
}

// Task occupies the agent for the given number of hours
func Task(name string, hours float64, opts ...TaskOption) Step {
	t := &taskStep{name: name, hours: hours, level: LevelAction}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *taskStep) run(a *Agent) (bool, error) {
	if a.needsMobilization() {
		a.Push(a.mobilization(), t)
		return false, nil
	}

	env := a.env
	location := t.location
	if location == "" {
		location = a.Location
	}

	if t.hours <= 0 {
		env.LogAction(Action{Agent: a.Name, Action: t.name, Start: env.now, Cost: t.fixedAmount(0, 0), Level: t.level, Location: location})
		return false, nil
	}

	if t.suspendable {
		return t.runSuspendable(a, location)
	}

	start, err := env.weather.FindStart(env.now, t.hours, t.constraint)
	if err != nil {
		return false, err
	}
	if wait := start - env.now; wait > epsilon {
		env.LogAction(Action{
			Agent:    a.Name,
			Action:   DelayAction,
			Start:    env.now,
			Duration: wait,
			Cost:     wait * a.HourlyRate(),
			Location: location,
		})
	}

	env.LogAction(Action{
		Agent:    a.Name,
		Action:   t.name,
		Start:    start,
		Duration: t.hours,
		Cost:     t.fixedAmount(t.hours, t.hours*a.HourlyRate()),
		Level:    t.level,
		Location: location,
	})
	a.wakeAt(start + t.hours)
	return true, nil
}

func (t *taskStep) runSuspendable(a *Agent, location string) (bool, error) {
	env := a.env
	segments, err := env.weather.Split(env.now, t.hours, t.constraint)
	if err != nil {
		return false, err
	}

	for _, seg := range segments {
		d := seg.Duration()
		if !seg.Active {
			env.LogAction(Action{Agent: a.Name, Action: DelayAction, Start: seg.Start, Duration: d, Cost: d * a.HourlyRate(), Location: location})
			continue
		}
		env.LogAction(Action{
			Agent:    a.Name,
			Action:   t.name,
			Start:    seg.Start,
			Duration: d,
			Cost:     t.fixedAmount(d, d*a.HourlyRate()),
			Level:    t.level,
			Location: location,
		})
	}

	a.wakeAt(segments[len(segments)-1].End)
	return true, nil
}

// fixedAmount spreads a fixed cost pro rata over active hours, or returns
// the day-rate amount when no fixed cost was given
func (t *taskStep) fixedAmount(activeHours, dayRateAmount float64) float64 {
	if !t.fixedCost {
		return dayRateAmount
	}
	if t.hours <= 0 {
		return t.cost
	}
	return t.cost * activeHours / t.hours
}

// mobilization marks the agent mobilized and returns the task charging it
func (a *Agent) mobilization() Step {
	a.mobilized = true
	return &taskStep{
		name:      MobilizeAction,
		hours:     a.mobilizeHours,
		cost:      a.mobilizeCost,
		fixedCost: true,
		level:     LevelAction,
		location:  a.Location,
	}
}

// Mobilize applies a pending mobilization now instead of before the
// agent's first task
func Mobilize() Step {
	return Do(func(a *Agent) error {
		if a.needsMobilization() {
			a.Push(a.mobilization())
		}
		return nil
	})
}

type funcStep struct {
	fn func(a *Agent) error
}

// Do runs fn at the current simulated time. fn may Push further steps, which
// is how loops and branches are expressed.
func Do(fn func(a *Agent) error) Step {
	return &funcStep{fn: fn}
}

func (f *funcStep) run(a *Agent) (bool, error) {
	return false, f.fn(a)
}

// Progress records a progress point when reached
func Progress(label string) Step {
	return Do(func(a *Agent) error {
		a.Progress(label)
		return nil
	})
}

// Debug writes a debug message when reached
func Debug(message string) Step {
	return Do(func(a *Agent) error {
		a.env.Debug(a.Name, message)
		return nil
	})
}

// MoveTo sets the agent's location for subsequent log entries
func MoveTo(location string) Step {
	return Do(func(a *Agent) error {
		a.Location = location
		return nil
	})
}

// Repeat runs body n times; body receives the zero-based iteration
func Repeat(n int, body func(i int) []Step) Step {
	var loop func(i int) Step
	loop = func(i int) Step {
		return Do(func(a *Agent) error {
			if i >= n {
				return nil
			}
			steps := body(i)
			a.Push(append(steps, loop(i+1))...)
			return nil
		})
	}
	return loop(0)
}

// While runs body for as long as cond holds, re-evaluating cond at each pass
func While(cond func(a *Agent) bool, body func(a *Agent) []Step) Step {
	var loop Step
	loop = Do(func(a *Agent) error {
		if !cond(a) {
			return nil
		}
		a.Push(append(body(a), loop)...)
		return nil
	})
	return loop
}
