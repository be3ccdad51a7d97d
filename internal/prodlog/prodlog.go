// Package prodlog records completed production events.
package prodlog

import (
	"sort"
	"sync"
)

// Entry is one completed production. Seq is assigned by the log on append
// and is strictly increasing in append order.
type Entry struct {
	Seq       uint64
	StartTime int
	Building  string
	Recipe    string
}

// Log is an append-only, goroutine-safe record of production events.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty Log.
func New() *Log {
	return &Log{}
}

// Append records an event and returns the stored entry.
func (l *Log) Append(startTime int, building, recipe string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{
		Seq:       uint64(len(l.entries)) + 1,
		StartTime: startTime,
		Building:  building,
		Recipe:    recipe,
	}
	l.entries = append(l.entries, e)
	return e
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the events in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Sorted returns a copy of the events ordered by start time, ties broken by
// append order. The log itself is left untouched.
func (l *Log) Sorted() []Entry {
	out := l.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
