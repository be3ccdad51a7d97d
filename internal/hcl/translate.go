// This file contains the logic for translating HCL schema structs into the
// format-agnostic scenario model defined in the config package.

package hcl

import (
	"fmt"
	"time"

	"github.com/vk/forgegrid/internal/config"
)

// merge appends the blocks of one decoded file to the scenario.
func (l *Loader) merge(s *config.Scenario, root *fileRoot) error {
	for _, sim := range root.Simulation {
		if err := translateSimulation(&s.Simulation, sim); err != nil {
			return err
		}
	}
	for _, p := range root.Products {
		s.Products = append(s.Products, config.Product{ID: p.ID, Quantity: p.Quantity})
	}
	for _, r := range root.Recipes {
		s.Recipes = append(s.Recipes, translateRecipe(r))
	}
	for _, p := range root.Projects {
		s.Projects = append(s.Projects, translateProject(p))
	}
	for _, b := range root.Buildings {
		s.Buildings = append(s.Buildings, translateBuilding(b))
	}
	return nil
}

// translateSimulation fills only the fields a block sets, so several files
// may each contribute part of the tuning.
func translateSimulation(dst *config.Simulation, b *simulationBlock) error {
	if b.PollInterval != nil {
		d, err := time.ParseDuration(*b.PollInterval)
		if err != nil {
			return fmt.Errorf("simulation.poll_interval: %w", err)
		}
		dst.PollInterval = d
	}
	if b.TimeUnit != nil {
		d, err := time.ParseDuration(*b.TimeUnit)
		if err != nil {
			return fmt.Errorf("simulation.time_unit: %w", err)
		}
		dst.TimeUnit = d
	}
	if b.Threshold != nil {
		dst.Threshold = *b.Threshold
	}
	return nil
}

func translateRecipe(r *recipeBlock) config.Recipe {
	comps := make([]config.Component, 0, len(r.Components))
	for _, c := range r.Components {
		comps = append(comps, config.Component{Product: c.Product, Quantity: c.Quantity})
	}
	return config.Recipe{
		Name:       r.Name,
		Components: comps,
		Output:     config.Component{Product: r.Output.Product, Quantity: r.Output.Quantity},
		Duration:   r.Duration,
	}
}

func translateProject(p *projectBlock) config.Project {
	abilities := make([]config.Ability, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		abilities = append(abilities, config.Ability{Recipe: a.Recipe, Duration: a.Duration})
	}
	return config.Project{Name: p.Name, Abilities: abilities}
}

func translateBuilding(b *buildingBlock) config.Building {
	out := config.Building{Name: b.Name, Project: b.Project}
	if b.StartTime != nil {
		out.StartTime = *b.StartTime
	}
	return out
}
