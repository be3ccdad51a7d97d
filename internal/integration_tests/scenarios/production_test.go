package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/forgegrid/internal/app"
	"github.com/vk/forgegrid/internal/testutil"
)

const foundry = `
recipe "smelt" {
  component "ore" { quantity = 2 }
  output "bar" { quantity = 1 }
  duration = 10
}

project "foundry" {
  ability "smelt" { duration = 10 }
}
`

// Test for: one building turns 5 ore into 2 bars in two cycles.
func TestScenarios_SingleBuilding(t *testing.T) {
	t.Parallel()

	// Arrange
	files := map[string]string{
		"recipes.hcl":   foundry,
		"stock.hcl":     `product "ore" { quantity = 5 }`,
		"buildings.hcl": `building "f1" { project = "foundry" }`,
	}

	// Act
	result := testutil.RunIntegrationTest(t, files, app.Config{})

	// Assert
	require.NoError(t, result.Err)
	testutil.AssertProduced(t, result, 0, "f1", "smelt")
	testutil.AssertProduced(t, result, 10, "f1", "smelt")
	testutil.AssertStock(t, result, "ore", 1)
	testutil.AssertStock(t, result, "bar", 2)
	assert.Equal(t, 20, result.Result.CompletionTime)
	assert.Contains(t, result.Report, "Completion time: 20\n")
}

// Test for: a missing component means nothing is ever produced.
func TestScenarios_MissingComponent(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": foundry + `
product "coal" { quantity = 9 }
building "f1" { project = "foundry" }
`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Threshold: 2})

	require.NoError(t, result.Err)
	assert.Empty(t, result.Result.Log)
	assert.Contains(t, result.Report, "(none)")
	assert.Equal(t, 2, result.Result.Ticks)
	testutil.AssertStock(t, result, "coal", 9)
}

// Test for: intermediate products feed later recipes across buildings.
func TestScenarios_ProductionChain(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": foundry + `
recipe "forge" {
  component "bar" { quantity = 2 }
  output "sword" { quantity = 1 }
  duration = 5
}

project "smithy" {
  ability "forge" { duration = 5 }
}

product "ore" { quantity = 8 }

building "f1" { project = "foundry" }
building "s1" { project = "smithy" }
`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{})

	require.NoError(t, result.Err)
	testutil.AssertStock(t, result, "ore", 0)
	testutil.AssertStock(t, result, "bar", 0)
	testutil.AssertStock(t, result, "sword", 2)
	assert.NotContains(t, result.Report, "  ore:", "exhausted products are left out of the report")
	assert.Len(t, result.Result.Log, 6)
}

// Test for: variables are overridable from the command line.
func TestScenarios_VariableOverride(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": foundry + `
variable "ore" { default = 2 }
product "ore" { quantity = var.ore }
building "f1" { project = "foundry" }
`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Vars: map[string]string{"ore": "6"}})

	require.NoError(t, result.Err)
	testutil.AssertStock(t, result, "bar", 3)
	testutil.AssertProduced(t, result, 20, "f1", "smelt")
}

// Test for: project ability durations override the recipe duration.
func TestScenarios_AbilityDuration(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
recipe "smelt" {
  component "ore" { quantity = 1 }
  output "bar" { quantity = 1 }
  duration = 100
}
project "fast" {
  ability "smelt" { duration = 3 }
}
product "ore" { quantity = 2 }
building "b" {
  project    = "fast"
  start_time = 4
}
`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{})

	require.NoError(t, result.Err)
	testutil.AssertProduced(t, result, 4, "b", "smelt")
	testutil.AssertProduced(t, result, 7, "b", "smelt")
	assert.Equal(t, 10, result.Result.CompletionTime)
}
