// Package monitor decides when a simulation can no longer make progress and
// tells every worker to stop.
//
// The monitor polls on a fixed interval, independent of production
// durations. A poll is "starved" when no recipe that some building can run
// is reservable from the current inventory and no worker is between
// reservation and commit.
// Each starved poll decrements a countdown; productive or busy polls leave it
// untouched. When the countdown reaches zero the stop signal is raised.
//
// A poll with a production in flight is never starved even when nothing is
// feasible: a running production can still unlock recipes when its output is
// committed, so the countdown waits for it.
//
// This is a debounced heuristic, not a deadlock proof: polls are not
// synchronised with worker reservations, so a transient shortage while
// workers interleave is expected and absorbed by the threshold.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vk/forgegrid/internal/clock"
	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/inventory"
	"github.com/vk/forgegrid/internal/metrics"
)

const (
	// DefaultPollInterval is the time between two feasibility checks.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultThreshold is the number of starved polls before stopping.
	DefaultThreshold = 4
)

// Config configures a Monitor. Inventory is required.
type Config struct {
	Inventory *inventory.Inventory
	// Recipes holds the component requirements of every recipe some
	// building can run.
	Recipes [][]inventory.Item
	// InFlight reports productions between reservation and commit. Nil
	// means none are ever in flight.
	InFlight func() int64

	Clock        clock.Clock
	PollInterval time.Duration
	Threshold    int
	Metrics      *metrics.Metrics
}

// Monitor is the termination control loop.
type Monitor struct {
	cfg       Config
	remaining atomic.Int64
	ticks     atomic.Int64
}

// New creates a Monitor, filling unset fields with defaults.
func New(cfg Config) *Monitor {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewReal()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.InFlight == nil {
		cfg.InFlight = func() int64 { return 0 }
	}
	m := &Monitor{cfg: cfg}
	m.remaining.Store(int64(cfg.Threshold))
	return m
}

// Remaining returns how many more starved polls are needed before the
// monitor stops the run.
func (m *Monitor) Remaining() int {
	return int(m.remaining.Load())
}

// Ticks returns the number of polls performed so far.
func (m *Monitor) Ticks() int {
	return int(m.ticks.Load())
}

// Run polls until the countdown expires, ctx is cancelled or stop is raised
// by someone else. It always leaves stop raised.
func (m *Monitor) Run(ctx context.Context, stop *Signal) error {
	logger := ctxlog.FromContext(ctx).With("component", "monitor")
	logger.Debug("Termination monitor started.", "poll_interval", m.cfg.PollInterval, "threshold", m.cfg.Threshold, "recipes", len(m.cfg.Recipes))
	defer stop.Raise()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping all workers.", "reason", ctx.Err())
			return nil
		case <-stop.Done():
			logger.Debug("Stop already raised, monitor exiting.")
			return nil
		case <-m.cfg.Clock.After(m.cfg.PollInterval):
		}

		outcome := m.tick()
		m.cfg.Metrics.Tick(outcome)
		m.cfg.Metrics.ObserveInventory(m.cfg.Inventory.Snapshot())
		logger.Debug("Monitor tick.", "tick", m.Ticks(), "outcome", outcome, "remaining", m.Remaining())

		if m.Remaining() <= 0 {
			logger.Info("No recipe can progress, stopping all workers.", "ticks", m.Ticks())
			return nil
		}
	}
}

// tick performs one feasibility poll and updates the countdown.
func (m *Monitor) tick() string {
	m.ticks.Add(1)

	// In-flight is sampled on both sides of the inventory check so that a
	// cycle reserving or committing concurrently is seen by at least one of
	// the two reads.
	busy := m.cfg.InFlight() > 0
	feasible := m.cfg.Inventory.AnyFeasible(m.cfg.Recipes...)
	busy = busy || m.cfg.InFlight() > 0

	switch {
	case feasible:
		return metrics.TickProductive
	case busy:
		return metrics.TickBusy
	default:
		m.remaining.Add(-1)
		return metrics.TickStarved
	}
}
