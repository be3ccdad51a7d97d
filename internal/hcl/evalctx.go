package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions is the set of functions available inside scenario expressions.
var functions = map[string]function.Function{
	"abs":   stdlib.AbsoluteFunc,
	"ceil":  stdlib.CeilFunc,
	"floor": stdlib.FloorFunc,
	"max":   stdlib.MaxFunc,
	"min":   stdlib.MinFunc,
}

// newEvalContext exposes the declared variables as `var.<name>`.
func newEvalContext(vars map[string]cty.Value) *hcl.EvalContext {
	obj := cty.EmptyObjectVal
	if len(vars) > 0 {
		obj = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": obj},
		Functions: functions,
	}
}

// applyOverrides replaces declared defaults with command-line values. A raw
// override is converted to the type of the declared default; variables
// without a default accept a number when the text parses as one and a
// string otherwise.
func applyOverrides(vars map[string]cty.Value, overrides map[string]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := overrides[name]
		declared, ok := vars[name]
		if !ok {
			return fmt.Errorf("variable %q is set but not declared", name)
		}

		if declared.IsNull() {
			if n, err := cty.ParseNumberVal(raw); err == nil {
				vars[name] = n
			} else {
				vars[name] = cty.StringVal(raw)
			}
			continue
		}

		v, err := convert.Convert(cty.StringVal(raw), declared.Type())
		if err != nil {
			return fmt.Errorf("variable %q: cannot use %q as %s: %w", name, raw, declared.Type().FriendlyName(), err)
		}
		vars[name] = v
	}
	return nil
}
