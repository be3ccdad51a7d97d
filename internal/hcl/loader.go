package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/forgegrid/internal/config"
	"github.com/vk/forgegrid/internal/ctxlog"
	"github.com/vk/forgegrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

var _ config.Loader = (*Loader)(nil)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	overrides map[string]string
}

// NewLoader creates a new HCL scenario loader. overrides holds raw
// `-var name=value` assignments and may be nil.
func NewLoader(overrides map[string]string) *Loader {
	return &Loader{overrides: overrides}
}

// Load parses every .hcl file under the given paths and merges them into a
// single scenario. Blocks keep the order in which files are discovered and,
// within a file, the order in which they are written.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Scenario, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	bodies := make([]hcl.Body, 0, len(files))
	vars := make(map[string]cty.Value)

	// First pass: collect variable declarations from every file.
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		content, remain, diags := hclFile.Body.PartialContent(variablesSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to read variables in %s: %w", file, diags)
		}
		for _, block := range content.Blocks {
			var v variableBlock
			if diags := gohcl.DecodeBody(block.Body, nil, &v); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode variable in %s: %w", file, diags)
			}
			v.Name = block.Labels[0]
			if _, dup := vars[v.Name]; dup {
				return nil, fmt.Errorf("variable %q declared more than once", v.Name)
			}
			def := v.Default
			if def == cty.NilVal {
				def = cty.NullVal(cty.DynamicPseudoType)
			}
			vars[v.Name] = def
		}
		bodies = append(bodies, remain)
	}

	if err := applyOverrides(vars, l.overrides); err != nil {
		return nil, err
	}
	evalCtx := newEvalContext(vars)
	logger.Debug("Evaluation context prepared.", "variables", len(vars))

	// Second pass: decode the scenario blocks.
	scenario := &config.Scenario{}
	for i, body := range bodies {
		var root fileRoot
		if diags := gohcl.DecodeBody(body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", files[i], diags)
		}
		if err := l.merge(scenario, &root); err != nil {
			return nil, fmt.Errorf("in %s: %w", files[i], err)
		}
	}

	logger.Debug("HCL loading complete.",
		"products", len(scenario.Products),
		"recipes", len(scenario.Recipes),
		"projects", len(scenario.Projects),
		"buildings", len(scenario.Buildings),
	)
	return scenario, nil
}
