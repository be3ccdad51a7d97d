package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/forgegrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const foundryHCL = `
simulation {
  poll_interval = "20ms"
  threshold     = 3
  time_unit     = "1ms"
}

product "ore" { quantity = 5 }

recipe "smelt" {
  component "ore" { quantity = 2 }
  output "bar" { quantity = 1 }
  duration = 10
}

project "foundry" {
  ability "smelt" { duration = 10 }
}

building "f1" { project = "foundry" }
building "f2" {
  project    = "foundry"
  start_time = 7
}
`

func TestLoader_Load_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "foundry.hcl", foundryHCL)

	got, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)

	want := &config.Scenario{
		Simulation: config.Simulation{
			PollInterval: 20 * time.Millisecond,
			Threshold:    3,
			TimeUnit:     time.Millisecond,
		},
		Products: []config.Product{{ID: "ore", Quantity: 5}},
		Recipes: []config.Recipe{{
			Name:       "smelt",
			Components: []config.Component{{Product: "ore", Quantity: 2}},
			Output:     config.Component{Product: "bar", Quantity: 1},
			Duration:   10,
		}},
		Projects: []config.Project{{
			Name:      "foundry",
			Abilities: []config.Ability{{Recipe: "smelt", Duration: 10}},
		}},
		Buildings: []config.Building{
			{Name: "f1", Project: "foundry"},
			{Name: "f2", Project: "foundry", StartTime: 7},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scenario mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Load_MergesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a_stock.hcl", `product "ore" { quantity = 4 }`)
	writeScenario(t, dir, "b_recipes.hcl", `
recipe "smelt" {
  component "ore" { quantity = 2 }
  output "bar" { quantity = 1 }
  duration = 5
}
`)
	writeScenario(t, dir, "ignored.txt", `not hcl at all {`)

	got, err := NewLoader(nil).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	require.Len(t, got.Recipes, 1)
	assert.Equal(t, "smelt", got.Recipes[0].Name)
	assert.Zero(t, got.Simulation.PollInterval)
}

func TestLoader_Load_Variables(t *testing.T) {
	const body = `
variable "ore" { default = 3 }
variable "speed" {}

product "ore" { quantity = var.ore * 2 }

recipe "smelt" {
  component "ore" { quantity = 1 }
  output "bar" { quantity = 1 }
  duration = max(var.speed, 1)
}
`
	testCases := []struct {
		name         string
		overrides    map[string]string
		wantQuantity int
		wantDuration int
	}{
		{
			name:         "default value with override for undefaulted",
			overrides:    map[string]string{"speed": "4"},
			wantQuantity: 6,
			wantDuration: 4,
		},
		{
			name:         "override converts to declared type",
			overrides:    map[string]string{"ore": "10", "speed": "0"},
			wantQuantity: 20,
			wantDuration: 1,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "vars.hcl", body)
			got, err := NewLoader(tc.overrides).Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantQuantity, got.Products[0].Quantity)
			assert.Equal(t, tc.wantDuration, got.Recipes[0].Duration)
		})
	}
}

func TestLoader_Load_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		overrides map[string]string
		wantErr   string
	}{
		{
			name:    "syntax error",
			body:    `product "ore" { quantity = }`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing required attribute",
			body:    `building "b" {}`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "bad duration string",
			body:    `simulation { poll_interval = "soon" }`,
			wantErr: "simulation.poll_interval",
		},
		{
			name:      "undeclared override",
			body:      `product "ore" { quantity = 1 }`,
			overrides: map[string]string{"nope": "1"},
			wantErr:   `variable "nope" is set but not declared`,
		},
		{
			name:      "override of wrong type",
			body:      `variable "n" { default = 1 }`,
			overrides: map[string]string{"n": "many"},
			wantErr:   `variable "n"`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "bad.hcl", tc.body)
			_, err := NewLoader(tc.overrides).Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_Load_NoFiles(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl files found")
}

func TestApplyOverrides_UndefaultedString(t *testing.T) {
	vars := map[string]cty.Value{"label": cty.NullVal(cty.DynamicPseudoType)}
	require.NoError(t, applyOverrides(vars, map[string]string{"label": "north"}))
	assert.True(t, vars["label"].RawEquals(cty.StringVal("north")))
}
