// Package internal provides internal utilities for the journey package.
package internal

import "time"

// Clock stamps result entries and measures step durations.
type Clock interface {
	Now() time.Time
}

// MonotonicClock is a Clock backed by time.Now, which carries a monotonic
// reading so step durations are unaffected by wall-clock adjustments.
type MonotonicClock struct{}

// Now returns the current system time.
func (MonotonicClock) Now() time.Time {
	return time.Now()
}

// MockClock is a Clock for tests. Each call to Now returns the current
// time and then advances it by Step, so consecutive entries get distinct,
// predictable timestamps. It is not safe for concurrent use.
type MockClock struct {
	current time.Time
	Step    time.Duration
}

// NewMockClock creates a MockClock initialized to t.
// If t is zero, it starts at 2024-12-25 14:00:00 UTC.
func NewMockClock(t time.Time) *MockClock {
	if t.IsZero() {
		t = time.Date(2024, 12, 25, 14, 0, 0, 0, time.UTC)
	}
	return &MockClock{current: t}
}

// Now returns the mock clock's current time and advances it by Step.
func (m *MockClock) Now() time.Time {
	now := m.current
	m.current = m.current.Add(m.Step)
	return now
}

// Advance moves the clock forward by d.
// Panics if d is negative to maintain monotonicity.
func (m *MockClock) Advance(d time.Duration) {
	if d < 0 {
		panic("MockClock.Advance: duration must be non-negative")
	}
	m.current = m.current.Add(d)
}
