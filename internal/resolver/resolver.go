package resolver

import (
	"context"

	"github.com/vk/forgegrid/internal/config"
	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/inventory"
)

// Recipe is a value copy of a scenario recipe, ready to be attempted against
// the inventory.
type Recipe struct {
	Name       string
	Components []inventory.Item
	Output     inventory.Item
	Duration   int
}

// Catalog indexes the scenario's recipes and projects. It is immutable after
// construction and safe for concurrent use.
type Catalog struct {
	order    []string
	recipes  map[string]Recipe
	projects map[string][]config.Ability
}

// NewCatalog builds a Catalog from a scenario. If a name is declared twice,
// the later declaration wins.
func NewCatalog(s *config.Scenario) *Catalog {
	c := &Catalog{
		recipes:  make(map[string]Recipe, len(s.Recipes)),
		projects: make(map[string][]config.Ability, len(s.Projects)),
	}
	for _, r := range s.Recipes {
		if _, seen := c.recipes[r.Name]; !seen {
			c.order = append(c.order, r.Name)
		}
		c.recipes[r.Name] = fromConfig(r)
	}
	for _, p := range s.Projects {
		abilities := make([]config.Ability, len(p.Abilities))
		copy(abilities, p.Abilities)
		c.projects[p.Name] = abilities
	}
	return c
}

// Recipes returns copies of every known recipe, with the durations declared
// in the recipe book, in declaration order.
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.recipes[name].clone())
	}
	return out
}

// Lookup returns a copy of the named recipe.
func (c *Catalog) Lookup(name string) (Recipe, bool) {
	r, ok := c.recipes[name]
	if !ok {
		return Recipe{}, false
	}
	return r.clone(), true
}

// Resolve expands a project into the ordered list of recipes a building
// running it may attempt. The order follows the project's ability
// declarations.
func (c *Catalog) Resolve(ctx context.Context, project string) []Recipe {
	logger := ctxlog.FromContext(ctx).With("project", project)

	abilities, ok := c.projects[project]
	if !ok {
		logger.Debug("Project not found, building gets no recipes.")
		return nil
	}

	resolved := make([]Recipe, 0, len(abilities))
	for _, ab := range abilities {
		base, ok := c.recipes[ab.Recipe]
		if !ok {
			logger.Debug("Ability names an unknown recipe, skipping.", "recipe", ab.Recipe)
			continue
		}
		r := base.clone()
		r.Duration = ab.Duration
		resolved = append(resolved, r)
	}
	logger.Debug("Project resolved.", "recipes", len(resolved))
	return resolved
}

func (r Recipe) clone() Recipe {
	comps := make([]inventory.Item, len(r.Components))
	copy(comps, r.Components)
	r.Components = comps
	return r
}

func fromConfig(r config.Recipe) Recipe {
	comps := make([]inventory.Item, 0, len(r.Components))
	for _, c := range r.Components {
		comps = append(comps, inventory.Item{ID: c.Product, Quantity: c.Quantity})
	}
	return Recipe{
		Name:       r.Name,
		Components: comps,
		Output:     inventory.Item{ID: r.Output.Product, Quantity: r.Output.Quantity},
		Duration:   r.Duration,
	}
}
