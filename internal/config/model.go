package config

import "time"

// Scenario is the unified, format-agnostic representation of a simulation:
// the starting stock, the recipe book, the projects that grant abilities and
// the buildings that run them.
type Scenario struct {
	Simulation Simulation
	Products   []Product  `validate:"dive"`
	Recipes    []Recipe   `validate:"dive"`
	Projects   []Project  `validate:"dive"`
	Buildings  []Building `validate:"dive"`
}

// Simulation holds the optional run-time tuning found in a scenario. Zero
// values mean "not set" and are filled from defaults or CLI flags.
type Simulation struct {
	PollInterval time.Duration `validate:"gte=0"`
	Threshold    int           `validate:"gte=0"`
	TimeUnit     time.Duration `validate:"gte=0"`
}

// Product is an initial stock entry.
type Product struct {
	ID       string `validate:"required"`
	Quantity int    `validate:"gte=0"`
}

// Component is a (product, quantity) pair used for recipe inputs and outputs.
type Component struct {
	Product  string `validate:"required"`
	Quantity int    `validate:"gte=1"`
}

// Recipe transforms components into one output over a duration.
type Recipe struct {
	Name       string      `validate:"required"`
	Components []Component `validate:"dive"`
	Output     Component
	Duration   int `validate:"gte=0"`
}

// Ability binds a recipe name to the duration a project runs it at.
type Ability struct {
	Recipe   string `validate:"required"`
	Duration int    `validate:"gte=0"`
}

// Project declares which recipes a building type may run, in priority order.
type Project struct {
	Name      string    `validate:"required"`
	Abilities []Ability `validate:"dive"`
}

// Building is one concurrent producer.
type Building struct {
	Name      string `validate:"required"`
	Project   string
	StartTime int `validate:"gte=0"`
}
