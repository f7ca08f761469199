//go:build basic

package integration

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runComparison runs one perturbation through the CLI and decodes the report.
func runComparison(t *testing.T, home string, args ...string) *schema.ComparisonReport {
	t.Helper()
	out, err := runScendiffCommand(t, home, append([]string{"run", "rcp45", "--output", "json"}, args...)...)
	require.NoError(t, err)

	var report schema.ComparisonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	return &report
}

// TestDeltaScalesWithMagnitude verifies larger perturbations move the
// projection further from the baseline.
func TestDeltaScalesWithMagnitude(t *testing.T) {
	home := t.TempDir()

	small := runComparison(t, home, "--magnitude", "1", "--from", "2040", "--to", "2060")
	large := runComparison(t, home, "--magnitude", "4", "--from", "2040", "--to", "2060")

	assert.Greater(t, large.Summary.MaxAbsDelta, small.Summary.MaxAbsDelta)
}

// TestIdentityMultiplierLeavesBaseline verifies that scaling emissions by
// 1.0 is a no-op end to end.
func TestIdentityMultiplierLeavesBaseline(t *testing.T) {
	home := t.TempDir()

	report := runComparison(t, home, "--transform", "multiplicative", "--magnitude", "1")
	assert.InDelta(t, 0, report.Summary.MaxAbsDelta, 1e-6)
}

// TestNegativePerturbationCools verifies that removing emissions lowers the
// projected temperature delta.
func TestNegativePerturbationCools(t *testing.T) {
	home := t.TempDir()

	report := runComparison(t, home, "--magnitude", "-2", "--from", "2040", "--to", "2060")

	var temp *schema.VariableDelta
	for i := range report.Results {
		if report.Results[i].Variable == schema.SurfaceTemperature {
			temp = &report.Results[i]
		}
	}
	require.NotNil(t, temp)
	assert.Negative(t, temp.Summary.FinalDelta)
	assert.Positive(t, math.Abs(temp.Summary.PeakDelta))
}
