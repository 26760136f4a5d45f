package simulation

// Signal is a rendezvous point between agents. Trigger wakes every agent
// currently waiting; triggers with nobody waiting are counted and each one
// is consumed by a later Wait.
type Signal struct {
	Name    string
	pending int
	waiters []*Agent
}

func NewSignal(name string) *Signal {
	return &Signal{Name: name}
}

// Pending reports whether an unconsumed trigger is stored
func (s *Signal) Pending() bool { return s.pending > 0 }

type waitStep struct{ s *Signal }

// Wait suspends the agent until the signal is triggered
func (s *Signal) Wait() Step { return &waitStep{s: s} }

func (w *waitStep) run(a *Agent) (bool, error) {
	if w.s.pending > 0 {
		w.s.pending--
		return false, nil
	}
	a.waitStart = a.env.now
	w.s.waiters = append(w.s.waiters, a)
	return true, nil
}

type triggerStep struct{ s *Signal }

// Trigger fires the signal
func (s *Signal) Trigger() Step { return &triggerStep{s: s} }

func (t *triggerStep) run(a *Agent) (bool, error) {
	t.s.fire()
	return false, nil
}

func (s *Signal) fire() {
	if len(s.waiters) == 0 {
		s.pending++
		return
	}
	waiters := s.waiters
	s.waiters = nil
	for _, w := range waiters {
		w.resumeAfterWait()
	}
}
