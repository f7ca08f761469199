package core

import (
	"fmt"

	"github.com/scendiff/scendiff/schema"
)

// EvaluateWarmingCheck gates a completed comparison against a warming limit:
// the check passes when the modified projection stays below the limit through
// the target year. A zero byYear means the full overlapping horizon.
func EvaluateWarmingCheck(report *schema.ComparisonReport, limit, byYear float64) (*schema.CheckResult, error) {
	var temp *schema.VariableDelta
	for i := range report.Results {
		if report.Results[i].Variable == schema.SurfaceTemperature {
			temp = &report.Results[i]
			break
		}
	}
	if temp == nil {
		return nil, fmt.Errorf("%w: comparison has no %s series",
			schema.ErrIncompatibleResults, schema.SurfaceTemperature)
	}

	lastYear := temp.Years[len(temp.Years)-1]
	if byYear == 0 || byYear > lastYear {
		byYear = lastYear
	}
	if byYear < temp.Years[0] {
		return nil, fmt.Errorf("%w: target year %.0f is before the projection starts at %.0f",
			schema.ErrInvalidWindow, byYear, temp.Years[0])
	}

	result := &schema.CheckResult{
		Scenario:     report.Scenario,
		Perturbation: report.Perturbation,
		Limit:        limit,
		ByYear:       byYear,
	}
	for i, year := range temp.Years {
		if year > byYear {
			break
		}
		// Seed from the first sample so an all-negative trajectory still
		// reports its true maximum instead of the zero value.
		if i == 0 || temp.Modified[i] > result.PeakWarming {
			result.PeakWarming = temp.Modified[i]
			result.PeakYear = year
		}
		if i == 0 || temp.Baseline[i] > result.BaselinePeak {
			result.BaselinePeak = temp.Baseline[i]
		}
		if result.CrossingYear == 0 && temp.Modified[i] >= limit {
			result.CrossingYear = year
		}
		if result.BaselineCross == 0 && temp.Baseline[i] >= limit {
			result.BaselineCross = year
		}
		result.WarmingAtByYear = temp.Modified[i]
	}
	result.Passed = result.PeakWarming < limit

	return result, nil
}
