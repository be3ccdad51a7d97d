package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called. It is
// intended for tests that need deterministic control over production
// durations and monitor ticks.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewManual creates a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After returns a channel that fires once the clock has been advanced by at
// least d. A non-positive d fires immediately.
func (m *Manual) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- m.now
		return ch
	}
	m.waiters = append(m.waiters, &waiter{deadline: m.now.Add(d), ch: ch})
	return ch
}

// Sleep blocks until the clock has been advanced by at least d.
func (m *Manual) Sleep(d time.Duration) {
	<-m.After(d)
}

// Advance moves the clock forward and releases every waiter whose deadline
// has been reached, earliest first.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now

	sort.Slice(m.waiters, func(i, j int) bool {
		return m.waiters[i].deadline.Before(m.waiters[j].deadline)
	})
	var pending []*waiter
	var due []*waiter
	for _, w := range m.waiters {
		if !w.deadline.After(now) {
			due = append(due, w)
		} else {
			pending = append(pending, w)
		}
	}
	m.waiters = pending
	m.mu.Unlock()

	for _, w := range due {
		w.ch <- now
	}
}

// Waiters reports how many callers are currently blocked on the clock.
func (m *Manual) Waiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}
