package shared

import "time"

// Clock is the source of "now" for planning decisions, allowing time to be pinned in tests
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC, truncated to whole seconds.
// Schedules are computed with one-second separation, so sub-second noise is dropped.
func (r *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// MockClock implements Clock with a controllable time for testing
type MockClock struct {
	CurrentTime time.Time
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// SetTime sets the mock clock to a specific time
func (m *MockClock) SetTime(t time.Time) {
	m.CurrentTime = t
}

// NewMockClock creates a MockClock starting at the given time.
// If zero time is provided, starts at the current (truncated) wall time.
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now().UTC().Truncate(time.Second)
	}
	return &MockClock{CurrentTime: startTime}
}

// FixedClock always returns the same instant. Plans with an explicit start date use it.
type FixedClock struct {
	at time.Time
}

// NewFixedClock creates a clock pinned to at
func NewFixedClock(at time.Time) Clock {
	return &FixedClock{at: at}
}

func (f *FixedClock) Now() time.Time {
	return f.at
}
