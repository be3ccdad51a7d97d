package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertProduced checks the text report for a `start:building:recipe` line.
func AssertProduced(t *testing.T, result *HarnessResult, startTime int, building, recipe string) {
	t.Helper()

	line := fmt.Sprintf("%d:%s:%s", startTime, building, recipe)
	require.True(t,
		strings.Contains(result.Report, line+"\n"),
		"expected production %q was not found in report:\n%s", line, result.Report,
	)
	require.NotNil(t, result.Result, "run produced no result")
	for _, e := range result.Result.Log {
		if e.StartTime == startTime && e.Building == building && e.Recipe == recipe {
			return
		}
	}
	t.Fatalf("production %q is in the report but not in the result log", line)
}

// AssertStock checks the final quantity of a product. A product that never
// entered the inventory counts as zero.
func AssertStock(t *testing.T, result *HarnessResult, product string, want int) {
	t.Helper()
	require.NotNil(t, result.Result, "run produced no result")

	for _, it := range result.Result.Inventory {
		if it.ID == product {
			require.Equal(t, want, it.Quantity, "stock of %q", product)
			return
		}
	}
	require.Zero(t, want, "product %q is not in the inventory", product)
}
