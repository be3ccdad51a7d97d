package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/forgegrid/internal/clock"
	"github.com/vk/forgegrid/internal/inventory"
	"github.com/vk/forgegrid/internal/prodlog"
	"github.com/vk/forgegrid/internal/resolver"
)

var smelt = resolver.Recipe{
	Name:       "smelt",
	Components: []inventory.Item{{ID: "ore", Quantity: 2}},
	Output:     inventory.Item{ID: "bar", Quantity: 1},
	Duration:   10,
}

func newInventory(t *testing.T, items ...inventory.Item) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.New(items...)
	require.NoError(t, err)
	return inv
}

// runAsync starts w and returns a channel that yields Run's result.
func runAsync(ctx context.Context, w *Worker, stop <-chan struct{}) <-chan error {
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, stop) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_SingleBuildingScenario(t *testing.T) {
	t.Parallel()
	inv := newInventory(t, inventory.Item{ID: "ore", Quantity: 5})
	log := prodlog.New()
	w := New(Config{
		Building:  "f1",
		Project:   "foundry",
		Recipes:   []resolver.Recipe{smelt},
		Inventory: inv,
		Log:       log,
		Tracker:   &Tracker{},
	})

	stop := make(chan struct{})
	done := runAsync(context.Background(), w, stop)

	require.Eventually(t, func() bool { return log.Len() == 2 }, 5*time.Second, time.Millisecond)
	close(stop)
	waitDone(t, done)

	assert.Equal(t, StateStopped, w.State())
	assert.Equal(t, 1, inv.Quantity("ore"))
	assert.Equal(t, 2, inv.Quantity("bar"))

	entries := log.Sorted()
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].StartTime)
	assert.Equal(t, 10, entries[1].StartTime)

	b := w.Snapshot()
	assert.Equal(t, Building{Name: "f1", Project: "foundry", StartTime: 20, EndTime: 20}, b)
}

func TestWorker_PrefersEarlierDeclaredRecipe(t *testing.T) {
	t.Parallel()
	cheap := resolver.Recipe{
		Name:       "cheap",
		Components: []inventory.Item{{ID: "ore", Quantity: 1}},
		Output:     inventory.Item{ID: "bar", Quantity: 1},
		Duration:   1,
	}
	inv := newInventory(t, inventory.Item{ID: "ore", Quantity: 6})
	log := prodlog.New()
	w := New(Config{
		Building:  "f1",
		Recipes:   []resolver.Recipe{smelt, cheap},
		Inventory: inv,
		Log:       log,
	})

	stop := make(chan struct{})
	done := runAsync(context.Background(), w, stop)
	require.Eventually(t, func() bool { return inv.Quantity("ore") == 0 }, 5*time.Second, time.Millisecond)
	close(stop)
	waitDone(t, done)

	for _, e := range log.Entries() {
		assert.Equal(t, "smelt", e.Recipe, "smelt is declared first and is feasible until ore runs out")
	}
	assert.Equal(t, 3, log.Len())
}

func TestWorker_FallsBackWhenEarlierRecipeInfeasible(t *testing.T) {
	t.Parallel()
	cheap := resolver.Recipe{
		Name:       "cheap",
		Components: []inventory.Item{{ID: "ore", Quantity: 1}},
		Output:     inventory.Item{ID: "bar", Quantity: 1},
		Duration:   1,
	}
	inv := newInventory(t, inventory.Item{ID: "ore", Quantity: 3})
	log := prodlog.New()
	w := New(Config{Building: "f1", Recipes: []resolver.Recipe{smelt, cheap}, Inventory: inv, Log: log})

	stop := make(chan struct{})
	done := runAsync(context.Background(), w, stop)
	require.Eventually(t, func() bool { return log.Len() == 2 }, 5*time.Second, time.Millisecond)
	close(stop)
	waitDone(t, done)

	entries := log.Entries()
	assert.Equal(t, "smelt", entries[0].Recipe)
	assert.Equal(t, "cheap", entries[1].Recipe)
	assert.Equal(t, 11, w.Snapshot().StartTime)
}

func TestWorker_FinishesInFlightCycleBeforeStopping(t *testing.T) {
	t.Parallel()
	clk := clock.NewManual(time.Unix(0, 0))
	inv := newInventory(t, inventory.Item{ID: "ore", Quantity: 4})
	log := prodlog.New()
	tracker := &Tracker{}
	w := New(Config{
		Building:  "f1",
		Recipes:   []resolver.Recipe{smelt},
		Inventory: inv,
		Log:       log,
		Tracker:   tracker,
		Clock:     clk,
		TimeUnit:  time.Millisecond,
	})

	stop := make(chan struct{})
	done := runAsync(context.Background(), w, stop)

	require.Eventually(t, func() bool { return w.State() == StateProducing && clk.Waiters() == 1 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, int64(1), tracker.InFlight())
	assert.Equal(t, 2, inv.Quantity("ore"), "components are consumed at reservation time")

	close(stop)
	select {
	case <-done:
		t.Fatal("worker abandoned an in-flight production")
	case <-time.After(20 * time.Millisecond):
	}

	clk.Advance(10 * time.Millisecond)
	waitDone(t, done)

	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 1, inv.Quantity("bar"))
	assert.Equal(t, 2, inv.Quantity("ore"), "no new cycle may start after the stop signal")
	assert.Equal(t, int64(0), tracker.InFlight())
	assert.Equal(t, StateStopped, w.State())
}

func TestWorker_NoRecipesStopsImmediately(t *testing.T) {
	t.Parallel()
	w := New(Config{Building: "idle", Inventory: newInventory(t), Log: prodlog.New()})

	waitDone(t, runAsync(context.Background(), w, make(chan struct{})))
	assert.Equal(t, StateStopped, w.State())
}

func TestWorker_ContextCancellationStops(t *testing.T) {
	t.Parallel()
	w := New(Config{
		Building:  "f1",
		Recipes:   []resolver.Recipe{smelt},
		Inventory: newInventory(t),
		Log:       prodlog.New(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, w, make(chan struct{}))
	cancel()
	waitDone(t, done)
	assert.Equal(t, StateStopped, w.State())
}

func TestWorkers_ConservationAndMonotonicClocks(t *testing.T) {
	t.Parallel()
	inv := newInventory(t, inventory.Item{ID: "ore", Quantity: 101})
	log := prodlog.New()
	tracker := &Tracker{}
	recipe := resolver.Recipe{
		Name:       "smelt",
		Components: []inventory.Item{{ID: "ore", Quantity: 3}},
		Output:     inventory.Item{ID: "bar", Quantity: 2},
		Duration:   5,
	}

	stop := make(chan struct{})
	var workers []*Worker
	var dones []<-chan error
	for i := 0; i < 8; i++ {
		w := New(Config{
			Building:  fmt.Sprintf("b%d", i),
			Recipes:   []resolver.Recipe{recipe},
			Inventory: inv,
			Log:       log,
			Tracker:   tracker,
		})
		workers = append(workers, w)
		dones = append(dones, runAsync(context.Background(), w, stop))
	}

	require.Eventually(t, func() bool {
		return inv.Quantity("ore") < 3 && tracker.InFlight() == 0
	}, 5*time.Second, time.Millisecond)
	close(stop)
	for _, d := range dones {
		waitDone(t, d)
	}

	assert.Equal(t, 33, log.Len())
	assert.Equal(t, 2, inv.Quantity("ore"))
	assert.Equal(t, 2*log.Len(), inv.Quantity("bar"), "every committed production delivers exactly its output")

	last := map[string]int{}
	perBuilding := map[string]int{}
	for _, e := range log.Entries() {
		prev, seen := last[e.Building]
		if seen {
			assert.GreaterOrEqual(t, e.StartTime, prev, "clock of %s went backwards", e.Building)
		}
		last[e.Building] = e.StartTime
		perBuilding[e.Building]++
	}
	for _, w := range workers {
		b := w.Snapshot()
		assert.Equal(t, 5*perBuilding[b.Name], b.StartTime)
	}
}
