package simulation

// Agent is a simulated actor, usually a vessel, driven by an ordered queue of
// steps. Steps run back to back; a step that waits (for time, a resource or a
// signal) suspends the agent until the environment wakes it.
type Agent struct {
	Name     string
	DayRate  float64
	Location string

	env   *Environment
	steps []Step
	done  bool

	mobilizeHours float64
	mobilizeCost  float64
	mobilized     bool

	held      map[*Resource]int
	heldOrder []*Resource
	waitStart float64
}

// NewAgent creates an agent charging dayRate per 24 hours of logged activity
func NewAgent(name string, dayRate float64) *Agent {
	return &Agent{Name: name, DayRate: dayRate, held: map[*Resource]int{}}
}

// HourlyRate is the day rate spread over 24 hours
func (a *Agent) HourlyRate() float64 {
	return a.DayRate / 24
}

// Env returns the environment the agent is registered with
func (a *Agent) Env() *Environment { return a.env }

// Now returns the current simulated time
func (a *Agent) Now() float64 {
	if a.env == nil {
		return 0
	}
	return a.env.now
}

// Done reports whether the agent has exhausted its steps
func (a *Agent) Done() bool { return a.done }

// SetMobilization configures the one-off mobilization applied before the
// agent's first timed task. Zero hours and zero cost disable it.
func (a *Agent) SetMobilization(hours, cost float64) {
	a.mobilizeHours = hours
	a.mobilizeCost = cost
}

func (a *Agent) needsMobilization() bool {
	return !a.mobilized && (a.mobilizeHours > 0 || a.mobilizeCost > 0)
}

// Then appends steps to the end of the queue
func (a *Agent) Then(steps ...Step) *Agent {
	a.steps = append(a.steps, steps...)
	return a
}

// Push inserts steps at the front of the queue, preserving their order
func (a *Agent) Push(steps ...Step) {
	if len(steps) == 0 {
		return
	}
	queue := make([]Step, 0, len(steps)+len(a.steps))
	queue = append(queue, steps...)
	a.steps = append(queue, a.steps...)
}

// Progress records a progress point for this agent at the current time
func (a *Agent) Progress(label string) {
	if a.env != nil {
		a.env.MarkProgress(a.Name, label)
	}
}

func (a *Agent) advance() {
	for len(a.steps) > 0 {
		if a.env.err != nil {
			return
		}
		step := a.steps[0]
		a.steps = a.steps[1:]

		blocked, err := step.run(a)
		if err != nil {
			a.env.fail(a, err)
			return
		}
		if blocked {
			return
		}
	}
	a.done = true
}

// wakeAt resumes the agent at time t
func (a *Agent) wakeAt(t float64) {
	a.env.schedule(t, a.advance)
}

// resumeAfterWait logs the time spent waiting since waitStart and resumes now
func (a *Agent) resumeAfterWait() {
	a.env.schedule(a.env.now, func() {
		if waited := a.env.now - a.waitStart; waited > epsilon {
			a.env.LogAction(Action{
				Agent:    a.Name,
				Action:   DelayAction,
				Start:    a.waitStart,
				Duration: waited,
				Cost:     waited * a.HourlyRate(),
				Location: a.Location,
			})
		}
		a.advance()
	})
}

func (a *Agent) hold(r *Resource) {
	if a.held[r] == 0 {
		a.heldOrder = append(a.heldOrder, r)
	}
	a.held[r]++
}

func (a *Agent) unhold(r *Resource) bool {
	if a.held[r] == 0 {
		return false
	}
	a.held[r]--
	if a.held[r] == 0 {
		delete(a.held, r)
		for i, h := range a.heldOrder {
			if h == r {
				a.heldOrder = append(a.heldOrder[:i], a.heldOrder[i+1:]...)
				break
			}
		}
	}
	return true
}

func (a *Agent) releaseAll() {
	for len(a.heldOrder) > 0 {
		r := a.heldOrder[0]
		for a.held[r] > 0 {
			_ = r.release(a)
		}
	}
}
