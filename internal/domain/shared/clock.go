package shared

import "time"

// Clock supplies wall-clock time for run bookkeeping. Simulated time never
// goes through it; environments keep their own hour counter.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC
type RealClock struct{}

func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a manually advanced clock for tests
type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// NewMockClock creates a MockClock starting at the given time.
// A zero start time is replaced by a fixed reference date.
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &MockClock{CurrentTime: startTime}
}

func NewRealClock() Clock {
	return &RealClock{}
}
