package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// variableBlock is a `variable "name" { default = ... }` declaration.
type variableBlock struct {
	Name    string    `hcl:"name,label"`
	Default cty.Value `hcl:"default,optional"`
	Remain  hcl.Body  `hcl:",remain"`
}

// simulationBlock holds optional run tuning. Durations are Go duration
// strings such as "50ms".
type simulationBlock struct {
	PollInterval *string `hcl:"poll_interval,optional"`
	Threshold    *int    `hcl:"threshold,optional"`
	TimeUnit     *string `hcl:"time_unit,optional"`
}

// productBlock is an initial stock entry.
type productBlock struct {
	ID       string `hcl:"id,label"`
	Quantity int    `hcl:"quantity"`
}

// componentBlock names a product and an amount, used for recipe inputs and
// the recipe output.
type componentBlock struct {
	Product  string `hcl:"product,label"`
	Quantity int    `hcl:"quantity"`
}

type recipeBlock struct {
	Name       string            `hcl:"name,label"`
	Components []*componentBlock `hcl:"component,block"`
	Output     componentBlock    `hcl:"output,block"`
	Duration   int               `hcl:"duration"`
}

type abilityBlock struct {
	Recipe   string `hcl:"recipe,label"`
	Duration int    `hcl:"duration"`
}

type projectBlock struct {
	Name      string          `hcl:"name,label"`
	Abilities []*abilityBlock `hcl:"ability,block"`
}

type buildingBlock struct {
	Name      string `hcl:"name,label"`
	Project   string `hcl:"project"`
	StartTime *int   `hcl:"start_time,optional"`
}

// fileRoot decodes every top-level block except variables, which are consumed
// by the first pass.
type fileRoot struct {
	Simulation []*simulationBlock `hcl:"simulation,block"`
	Products   []*productBlock    `hcl:"product,block"`
	Recipes    []*recipeBlock     `hcl:"recipe,block"`
	Projects   []*projectBlock    `hcl:"project,block"`
	Buildings  []*buildingBlock   `hcl:"building,block"`
}

var variablesSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "variable", LabelNames: []string{"name"}},
	},
}
