package worker

import "sync/atomic"

// Tracker counts production cycles that have started reserving components
// but not yet committed, across every worker sharing it.
type Tracker struct {
	n atomic.Int64
}

// InFlight returns the number of cycles currently between reservation and
// commit.
func (t *Tracker) InFlight() int64 {
	if t == nil {
		return 0
	}
	return t.n.Load()
}

func (t *Tracker) begin() {
	if t != nil {
		t.n.Add(1)
	}
}

func (t *Tracker) end() {
	if t != nil {
		t.n.Add(-1)
	}
}
