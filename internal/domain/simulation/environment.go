// Package simulation is a small discrete-event engine. Agents are driven by
// ordered queues of steps; the environment advances a real-valued clock in
// hours, releasing agents from a (time, sequence) ordered event queue so ties
// resolve in the order they were scheduled.
package simulation

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

type event struct {
	time float64
	seq  uint64
	fn   func()
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Environment owns the clock, the event queue and the logs of one simulation
type Environment struct {
	name     string
	weather  *weather.Window
	now      float64
	seq      uint64
	events   eventQueue
	agents   []*Agent
	actions  []Action
	debug    []LogEntry
	progress []ProgressPoint
	err      error
}

// NewEnvironment creates an environment. A nil window means every hour is workable.
func NewEnvironment(name string, window *weather.Window) *Environment {
	return &Environment{name: name, weather: window}
}

func (e *Environment) Name() string { return e.name }

// Now returns the current simulated time in hours
func (e *Environment) Now() float64 { return e.now }

func (e *Environment) Weather() *weather.Window { return e.weather }

// Register attaches an agent; it starts executing its steps at the current time
func (e *Environment) Register(a *Agent) {
	a.env = e
	e.agents = append(e.agents, a)
	e.schedule(e.now, a.advance)
}

// Agents returns the registered agents in registration order
func (e *Environment) Agents() []*Agent {
	return append([]*Agent(nil), e.agents...)
}

func (e *Environment) schedule(at float64, fn func()) {
	e.seq++
	heap.Push(&e.events, &event{time: at, seq: e.seq, fn: fn})
}

// Run processes events until the queue is empty. A positive until bounds the
// simulated time; events beyond it abort the run with SimulationTimeoutError.
func (e *Environment) Run(until float64) error {
	e.Debug("", "SIMULATION START")

	for e.events.Len() > 0 {
		next := e.events[0]
		if until > 0 && next.time > until {
			e.err = shared.NewSimulationTimeoutError(until)
			return e.err
		}
		heap.Pop(&e.events)
		e.now = next.time
		next.fn()
		if e.err != nil {
			return e.err
		}
	}

	if stalled := e.stalled(); len(stalled) > 0 {
		e.err = shared.NewDomainError(fmt.Sprintf("simulation %s stalled with agents still waiting: %s", e.name, strings.Join(stalled, ", ")))
		return e.err
	}

	e.Debug("", "SIMULATION END")
	return nil
}

func (e *Environment) stalled() []string {
	var names []string
	for _, a := range e.agents {
		if !a.done {
			names = append(names, a.Name)
		}
	}
	return names
}

func (e *Environment) fail(a *Agent, err error) {
	a.releaseAll()
	if e.err == nil {
		e.err = err
	}
	e.Debug(a.Name, fmt.Sprintf("failed: %v", err))
}

// Err returns the first error raised by any agent
func (e *Environment) Err() error { return e.err }

// LogAction appends an entry to the action log
func (e *Environment) LogAction(a Action) {
	if a.Level == "" {
		a.Level = LevelAction
	}
	if a.Level == LevelDebug {
		e.debug = append(e.debug, LogEntry{Time: a.Start, Agent: a.Agent, Message: a.Action})
		return
	}
	e.actions = append(e.actions, a)
}

// Debug appends a message to the debug log
func (e *Environment) Debug(agent, message string) {
	e.debug = append(e.debug, LogEntry{Time: e.now, Agent: agent, Message: message})
}

// MarkProgress records a progress point at the current time
func (e *Environment) MarkProgress(agent, label string) {
	e.progress = append(e.progress, ProgressPoint{Label: label, Time: e.now, Agent: agent})
}

// Actions returns the action log ordered by start time
func (e *Environment) Actions() []Action {
	out := append([]Action(nil), e.actions...)
	SortActions(out)
	return out
}

// DebugLog returns the debug messages in the order they were written
func (e *Environment) DebugLog() []LogEntry {
	return append([]LogEntry(nil), e.debug...)
}

func (e *Environment) Progress() []ProgressPoint {
	return append([]ProgressPoint(nil), e.progress...)
}
