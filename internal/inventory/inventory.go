package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNegativeQuantity is returned when a caller tries to add a negative
// amount of a product.
var ErrNegativeQuantity = errors.New("quantity must not be negative")

// Item is a product identifier paired with a quantity.
type Item struct {
	ID       string
	Quantity int
}

// Inventory is the mutable mapping of product id to available quantity.
// The zero value is not usable; create one with New.
type Inventory struct {
	mu    sync.Mutex
	stock map[string]int
}

// New creates an Inventory seeded with the given items. Repeated ids are
// summed.
func New(items ...Item) (*Inventory, error) {
	inv := &Inventory{stock: make(map[string]int, len(items))}
	for _, it := range items {
		if it.Quantity < 0 {
			return nil, fmt.Errorf("seeding %q: %w", it.ID, ErrNegativeQuantity)
		}
		inv.stock[it.ID] += it.Quantity
	}
	return inv, nil
}

// TryConsume atomically reserves every requirement. It either decrements all
// of them and returns true, or changes nothing and returns false.
func (inv *Inventory) TryConsume(reqs []Item) bool {
	need := aggregate(reqs)

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if !inv.satisfiedLocked(need) {
		return false
	}
	for id, qty := range need {
		inv.stock[id] -= qty
	}
	return true
}

// Add increments a product's quantity, creating the entry if it is absent.
func (inv *Inventory) Add(id string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("adding %d of %q: %w", qty, id, ErrNegativeQuantity)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.stock[id] += qty
	return nil
}

// Feasible reports whether TryConsume would currently succeed for reqs,
// without changing anything.
func (inv *Inventory) Feasible(reqs []Item) bool {
	need := aggregate(reqs)

	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.satisfiedLocked(need)
}

// AnyFeasible reports whether at least one of the requirement sets is
// currently satisfiable. All sets are checked under a single lock
// acquisition so the answer reflects one consistent state.
func (inv *Inventory) AnyFeasible(sets ...[]Item) bool {
	needs := make([]map[string]int, len(sets))
	for i, reqs := range sets {
		needs[i] = aggregate(reqs)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, need := range needs {
		if inv.satisfiedLocked(need) {
			return true
		}
	}
	return false
}

// Quantity returns the current quantity of id, or zero if it is unknown.
func (inv *Inventory) Quantity(id string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.stock[id]
}

// Snapshot returns a copy of the current stock, zero quantities included.
func (inv *Inventory) Snapshot() map[string]int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make(map[string]int, len(inv.stock))
	for id, qty := range inv.stock {
		out[id] = qty
	}
	return out
}

// Items returns the current stock as a slice sorted by product id.
func (inv *Inventory) Items() []Item {
	snap := inv.Snapshot()
	items := make([]Item, 0, len(snap))
	for id, qty := range snap {
		items = append(items, Item{ID: id, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (inv *Inventory) satisfiedLocked(need map[string]int) bool {
	for id, qty := range need {
		if inv.stock[id] < qty {
			return false
		}
	}
	return true
}

// aggregate sums requirements that name the same product so that a recipe
// listing "ore" twice needs the combined amount. Non-positive quantities
// require nothing.
func aggregate(reqs []Item) map[string]int {
	need := make(map[string]int, len(reqs))
	for _, r := range reqs {
		if r.Quantity <= 0 {
			continue
		}
		need[r.ID] += r.Quantity
	}
	return need
}
