package monitor

import "sync"

// Signal is a one-shot broadcast. Raising it more than once is harmless.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewSignal creates an unraised Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Raise closes the signal's channel, releasing every observer.
func (s *Signal) Raise() {
	s.once.Do(func() { close(s.ch) })
}

// Done returns a channel that is closed once the signal is raised.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

// Raised reports whether Raise has been called.
func (s *Signal) Raised() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
