package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/vk/forgegrid/internal/clock"
	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/inventory"
	"github.com/vk/forgegrid/internal/metrics"
	"github.com/vk/forgegrid/internal/prodlog"
	"github.com/vk/forgegrid/internal/resolver"
)

// DefaultRetryInterval is how long a worker waits before re-scanning its
// recipes when none of them could be reserved.
const DefaultRetryInterval = time.Millisecond

// Config holds everything a worker needs. Inventory and Log are required.
type Config struct {
	Building  string
	Project   string
	StartTime int
	Recipes   []resolver.Recipe

	Inventory *inventory.Inventory
	Log       *prodlog.Log
	Tracker   *Tracker
	Metrics   *metrics.Metrics

	Clock         clock.Clock
	TimeUnit      time.Duration
	RetryInterval time.Duration
}

// Building is a snapshot of a worker's simulated clock.
type Building struct {
	Name      string
	Project   string
	StartTime int
	EndTime   int
}

// Worker runs the production loop of one building.
type Worker struct {
	cfg     Config
	machine *fsm.FSM

	mu        sync.Mutex
	startTime int
	endTime   int
}

// New creates a worker in the selecting state.
func New(cfg Config) *Worker {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewReal()
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	return &Worker{
		cfg: cfg,
		machine: fsm.NewFSM(StateSelecting, transitions, fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				ctxlog.FromContext(ctx).Debug("Worker state changed.", "from", e.Src, "to", e.Dst, "event", e.Event)
			},
		}),
		startTime: cfg.StartTime,
		endTime:   cfg.StartTime,
	}
}

// State returns the current state of the worker's machine.
func (w *Worker) State() string {
	return w.machine.Current()
}

// Snapshot returns the building's current simulated clock.
func (w *Worker) Snapshot() Building {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Building{
		Name:      w.cfg.Building,
		Project:   w.cfg.Project,
		StartTime: w.startTime,
		EndTime:   w.endTime,
	}
}

// Run loops until stop is closed or ctx is cancelled. Both are only checked
// while selecting. It returns an error only if the state machine rejects a
// transition, which indicates a programming error.
func (w *Worker) Run(ctx context.Context, stop <-chan struct{}) error {
	ctx, logger := ctxlog.With(ctx, "building", w.cfg.Building)
	logger.Debug("Worker started.", "recipes", len(w.cfg.Recipes))

	w.cfg.Metrics.WorkerStarted()
	defer w.cfg.Metrics.WorkerStopped()

	if len(w.cfg.Recipes) == 0 {
		logger.Debug("Worker has no recipes, stopping immediately.")
		return w.fire(ctx, EventStop)
	}

	for {
		if stopped(ctx, stop) {
			logger.Debug("Stop signal observed, worker exiting.")
			return w.fire(ctx, EventStop)
		}

		recipe, ok := w.reserve()
		if !ok {
			select {
			case <-stop:
			case <-ctx.Done():
			case <-w.cfg.Clock.After(w.cfg.RetryInterval):
			}
			continue
		}

		if err := w.cycle(ctx, recipe); err != nil {
			return err
		}
	}
}

// reserve scans the recipes in declaration order and reserves the first one
// whose components are available. On success the tracker has been entered
// and the caller owns the matching exit.
func (w *Worker) reserve() (resolver.Recipe, bool) {
	for _, r := range w.cfg.Recipes {
		if !w.cfg.Inventory.Feasible(r.Components) {
			continue
		}
		w.cfg.Tracker.begin()
		if w.cfg.Inventory.TryConsume(r.Components) {
			return r, true
		}
		w.cfg.Tracker.end()
		w.cfg.Metrics.ReservationFailed(w.cfg.Building, r.Name)
	}
	return resolver.Recipe{}, false
}

// cycle produces and commits a reserved recipe.
func (w *Worker) cycle(ctx context.Context, r resolver.Recipe) error {
	logger := ctxlog.FromContext(ctx).With("recipe", r.Name)

	if err := w.fire(ctx, EventReserve); err != nil {
		w.cfg.Tracker.end()
		return err
	}
	logger.Debug("Components reserved, producing.", "duration", r.Duration)
	w.cfg.Clock.Sleep(time.Duration(r.Duration) * w.cfg.TimeUnit)

	if err := w.fire(ctx, EventFinish); err != nil {
		w.cfg.Tracker.end()
		return err
	}
	w.commit(ctx, r)
	return w.fire(ctx, EventCommit)
}

func (w *Worker) commit(ctx context.Context, r resolver.Recipe) {
	logger := ctxlog.FromContext(ctx)
	defer w.cfg.Tracker.end()

	if err := w.cfg.Inventory.Add(r.Output.ID, r.Output.Quantity); err != nil {
		logger.Error("Failed to deliver recipe output.", "recipe", r.Name, "error", err)
	}

	w.mu.Lock()
	start := w.startTime
	w.cfg.Log.Append(start, w.cfg.Building, r.Name)
	w.startTime += r.Duration
	w.endTime = w.startTime
	w.mu.Unlock()

	w.cfg.Metrics.Produced(w.cfg.Building, r.Name)
	logger.Debug("Production committed.", "recipe", r.Name, "start_time", start, "output", r.Output.ID, "quantity", r.Output.Quantity)
}

// fire sends an event to the machine. The event runs detached from ctx
// cancellation: looplab/fsm abandons a transition half way when its context
// is cancelled, and an in-flight cycle must always be able to finish.
func (w *Worker) fire(ctx context.Context, event string) error {
	if err := w.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		return fmt.Errorf("worker %s: %s from %s: %w", w.cfg.Building, event, w.machine.Current(), err)
	}
	return nil
}

func stopped(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
