package simulation

import (
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// Resource is a pool of identical units granted first come, first served.
// Each grant must be released exactly once by the agent holding it.
type Resource struct {
	Name     string
	capacity int
	inUse    int
	waiters  []*Agent
}

// NewResource creates a resource with the given number of units (minimum 1)
func NewResource(name string, capacity int) *Resource {
	if capacity < 1 {
		capacity = 1
	}
	return &Resource{Name: name, capacity: capacity}
}

func (r *Resource) Capacity() int { return r.capacity }

func (r *Resource) InUse() int { return r.inUse }

// Queued returns the number of agents waiting for a unit
func (r *Resource) Queued() int { return len(r.waiters) }

func (r *Resource) request(a *Agent) bool {
	if r.inUse < r.capacity && len(r.waiters) == 0 {
		r.inUse++
		a.hold(r)
		return true
	}
	r.waiters = append(r.waiters, a)
	return false
}

func (r *Resource) release(a *Agent) error {
	if !a.unhold(r) {
		return shared.NewDomainError(fmt.Sprintf("%s released %s without holding it", a.Name, r.Name))
	}
	r.inUse--

	if len(r.waiters) > 0 && r.inUse < r.capacity {
		next := r.waiters[0]
		r.waiters = r.waiters[1:]
		r.inUse++
		next.hold(r)
		next.resumeAfterWait()
	}
	return nil
}

type acquireStep struct{ r *Resource }

// Acquire waits for one unit of the resource
func (r *Resource) Acquire() Step { return &acquireStep{r: r} }

func (s *acquireStep) run(a *Agent) (bool, error) {
	if s.r.request(a) {
		return false, nil
	}
	a.waitStart = a.env.now
	return true, nil
}

type releaseStep struct{ r *Resource }

// Release returns one unit of the resource
func (r *Resource) Release() Step { return &releaseStep{r: r} }

func (s *releaseStep) run(a *Agent) (bool, error) {
	return false, s.r.release(a)
}

// Hold wraps steps between an Acquire and a Release. If any of the steps
// fails the environment releases every unit the agent still holds.
func (r *Resource) Hold(steps ...Step) []Step {
	out := make([]Step, 0, len(steps)+2)
	out = append(out, r.Acquire())
	out = append(out, steps...)
	return append(out, r.Release())
}
