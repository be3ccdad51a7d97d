package clock

import "time"

// Clock is the time source used by the simulation.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After waits for the duration to elapse and then sends the current time
	// on the returned channel.
	After(d time.Duration) <-chan time.Time

	// Sleep blocks for the given duration.
	Sleep(d time.Duration)
}

// Real is a Clock backed by the time package.
type Real struct{}

// NewReal creates a wall-clock Clock.
func NewReal() *Real {
	return &Real{}
}

// Now returns time.Now().
func (Real) Now() time.Time {
	return time.Now()
}

// After returns time.After(d).
func (Real) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Sleep calls time.Sleep(d). Non-positive durations return immediately.
func (Real) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
