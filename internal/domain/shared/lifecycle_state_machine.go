package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus is the state of a phase
type LifecycleStatus string

const (
	LifecycleStatusCreated   LifecycleStatus = "CREATED"
	LifecycleStatusValidated LifecycleStatus = "VALIDATED"
	LifecycleStatusRunning   LifecycleStatus = "RUNNING"
	LifecycleStatusComplete  LifecycleStatus = "COMPLETE"
	LifecycleStatusFailed    LifecycleStatus = "FAILED"
)

// lifecycleTransitions lists the states each target may be entered from.
// COMPLETE -> RUNNING allows design phases to be run again.
var lifecycleTransitions = map[LifecycleStatus][]LifecycleStatus{
	LifecycleStatusValidated: {LifecycleStatusCreated},
	LifecycleStatusRunning:   {LifecycleStatusValidated, LifecycleStatusComplete},
	LifecycleStatusComplete:  {LifecycleStatusRunning},
	LifecycleStatusFailed:    {LifecycleStatusCreated, LifecycleStatusValidated, LifecycleStatusRunning},
}

// LifecycleStateMachine tracks a phase through
// CREATED -> VALIDATED -> RUNNING -> COMPLETE | FAILED.
// Timestamps are wall-clock readings of the injected Clock, never simulated
// hours.
type LifecycleStateMachine struct {
	status    LifecycleStatus
	startedAt time.Time
	stoppedAt time.Time
	lastError error
	clock     Clock
}

// NewLifecycleStateMachine starts in CREATED. A nil clock uses the real one.
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}
	return &LifecycleStateMachine{status: LifecycleStatusCreated, clock: clock}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }

func (sm *LifecycleStateMachine) LastError() error { return sm.lastError }

func (sm *LifecycleStateMachine) transition(to LifecycleStatus) error {
	for _, from := range lifecycleTransitions[to] {
		if sm.status == from {
			sm.status = to
			return nil
		}
	}
	return fmt.Errorf("phase cannot move from %s to %s", sm.status, to)
}

// Validate marks every required input as present
func (sm *LifecycleStateMachine) Validate() error {
	return sm.transition(LifecycleStatusValidated)
}

func (sm *LifecycleStateMachine) Start() error {
	if err := sm.transition(LifecycleStatusRunning); err != nil {
		return err
	}
	sm.startedAt = sm.clock.Now()
	sm.stoppedAt = time.Time{}
	sm.lastError = nil
	return nil
}

func (sm *LifecycleStateMachine) Complete() error {
	if err := sm.transition(LifecycleStatusComplete); err != nil {
		return err
	}
	sm.stoppedAt = sm.clock.Now()
	return nil
}

// Fail records err. Finished phases cannot fail.
func (sm *LifecycleStateMachine) Fail(err error) error {
	if terr := sm.transition(LifecycleStatusFailed); terr != nil {
		return terr
	}
	sm.lastError = err
	sm.stoppedAt = sm.clock.Now()
	return nil
}

func (sm *LifecycleStateMachine) IsComplete() bool {
	return sm.status == LifecycleStatusComplete
}

// Runtime is the wall-clock time spent in the latest run, measured up to now
// while the phase is still running
func (sm *LifecycleStateMachine) Runtime() time.Duration {
	if sm.startedAt.IsZero() {
		return 0
	}
	end := sm.stoppedAt
	if end.IsZero() {
		end = sm.clock.Now()
	}
	return end.Sub(sm.startedAt)
}
