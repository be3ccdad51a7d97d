package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vk/forgegrid/internal/clock"
	"github.com/vk/forgegrid/internal/config"
	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/inventory"
	"github.com/vk/forgegrid/internal/metrics"
	"github.com/vk/forgegrid/internal/monitor"
	"github.com/vk/forgegrid/internal/prodlog"
	"github.com/vk/forgegrid/internal/resolver"
	"github.com/vk/forgegrid/internal/worker"
	"golang.org/x/sync/errgroup"
)

// Options tunes a run. Zero values fall back to the package defaults of the
// monitor and worker packages; a zero TimeUnit makes production instant.
type Options struct {
	PollInterval  time.Duration
	Threshold     int
	TimeUnit      time.Duration
	RetryInterval time.Duration
	Clock         clock.Clock
	Metrics       *metrics.Metrics
}

// Result is everything a run leaves behind.
type Result struct {
	// Inventory is the final stock sorted by id, zero quantities included.
	Inventory []inventory.Item
	// Log is the production log ordered by start time.
	Log []prodlog.Entry
	// Buildings holds each building's final clock in scenario order.
	Buildings []worker.Building
	// CompletionTime is the largest building start time at termination.
	CompletionTime int
	// Ticks is the number of polls the monitor performed.
	Ticks int
}

// Executor runs a scenario.
type Executor struct {
	scenario *config.Scenario
	opts     Options
}

// New creates an Executor for a scenario.
func New(s *config.Scenario, opts Options) *Executor {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	return &Executor{scenario: s, opts: opts}
}

// Run executes the simulation and blocks until it has terminated. Cancelling
// ctx stops the run the same way the monitor does: in-flight cycles finish,
// and the partial result is returned.
func (e *Executor) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	inv, err := inventory.New(seed(e.scenario.Products)...)
	if err != nil {
		return nil, fmt.Errorf("failed to seed inventory: %w", err)
	}
	catalog := resolver.NewCatalog(e.scenario)
	log := prodlog.New()
	tracker := &worker.Tracker{}
	stop := monitor.NewSignal()

	workers := make([]*worker.Worker, 0, len(e.scenario.Buildings))
	runnable := make(map[string]struct{})
	var requirements [][]inventory.Item
	for _, b := range e.scenario.Buildings {
		bctx, _ := ctxlog.With(ctx, "building", b.Name)
		recipes := catalog.Resolve(bctx, b.Project)
		for _, r := range recipes {
			if _, seen := runnable[r.Name]; seen {
				continue
			}
			runnable[r.Name] = struct{}{}
			requirements = append(requirements, r.Components)
		}
		workers = append(workers, worker.New(worker.Config{
			Building:      b.Name,
			Project:       b.Project,
			StartTime:     b.StartTime,
			Recipes:       recipes,
			Inventory:     inv,
			Log:           log,
			Tracker:       tracker,
			Metrics:       e.opts.Metrics,
			Clock:         e.opts.Clock,
			TimeUnit:      e.opts.TimeUnit,
			RetryInterval: e.opts.RetryInterval,
		}))
	}

	// Only recipes granted to some building count towards feasibility; a
	// recipe nobody can run must not keep the run alive.
	mon := monitor.New(monitor.Config{
		Inventory:    inv,
		Recipes:      requirements,
		InFlight:     tracker.InFlight,
		Clock:        e.opts.Clock,
		PollInterval: e.opts.PollInterval,
		Threshold:    e.opts.Threshold,
		Metrics:      e.opts.Metrics,
	})

	logger.Info("Starting production.", "buildings", len(workers), "recipes", len(requirements), "products", len(e.scenario.Products))

	// Once every worker has exited nothing can change the inventory, so the
	// run is over even if the monitor has not counted down.
	var live atomic.Int64
	live.Store(int64(len(workers)))

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			defer func() {
				if live.Add(-1) == 0 {
					logger.Debug("All workers stopped, ending run.")
					stop.Raise()
				}
			}()
			return w.Run(gctx, stop.Done())
		})
	}
	g.Go(func() error {
		return mon.Run(gctx, stop)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	result := &Result{
		Inventory: inv.Items(),
		Log:       log.Sorted(),
		Ticks:     mon.Ticks(),
	}
	for _, w := range workers {
		b := w.Snapshot()
		result.Buildings = append(result.Buildings, b)
		if b.StartTime > result.CompletionTime {
			result.CompletionTime = b.StartTime
		}
	}

	logger.Info("Production finished.", "productions", len(result.Log), "completion_time", result.CompletionTime, "monitor_ticks", result.Ticks)
	return result, nil
}

func seed(products []config.Product) []inventory.Item {
	items := make([]inventory.Item, 0, len(products))
	for _, p := range products {
		items = append(items, inventory.Item{ID: p.ID, Quantity: p.Quantity})
	}
	return items
}
