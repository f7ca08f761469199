package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/scendiff/scendiff/schema"
	"gonum.org/v1/gonum/interp"
)

// compareProjections aligns two projections over their overlapping years and
// computes per-variable delta series plus headline summaries. Both results
// must cover exactly the same variable set; when their grids differ, the
// coarser series is resampled onto the finer one.
func compareProjections(baseline, modified *schema.ProjectionResult) (*schema.ComparisonReport, error) {
	if !baseline.SameVariableSet(modified) {
		return nil, fmt.Errorf("%w: baseline has %v, modified has %v",
			schema.ErrIncompatibleResults, baseline.SortedVariables(), modified.SortedVariables())
	}

	overlapStart := math.Max(baseline.StartYear, modified.StartYear)
	overlapEnd := math.Min(baseline.EndYear, modified.EndYear)
	if overlapStart > overlapEnd {
		return nil, fmt.Errorf("%w: baseline ends %.0f, modified starts %.0f",
			schema.ErrNoOverlap, baseline.EndYear, modified.StartYear)
	}

	summary := schema.ComparisonSummary{
		OverlapStart: overlapStart,
		OverlapEnd:   overlapEnd,
	}
	results := make([]schema.VariableDelta, 0, len(baseline.Variables))
	for _, v := range baseline.SortedVariables() {
		vd, err := alignVariable(v, baseline.Variables[v], modified.Variables[v])
		if err != nil {
			return nil, err
		}
		if abs := math.Abs(vd.Summary.PeakDelta); abs > summary.MaxAbsDelta {
			summary.MaxAbsDelta = abs
			summary.MaxAbsDeltaVariable = v
		}
		results = append(results, vd)
	}
	sortVariableDeltas(results)
	summary.Crossings = thresholdCrossings(baseline, modified)

	return &schema.ComparisonReport{
		Results:     results,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}, nil
}

// alignVariable restricts both series of one variable to their common year
// range and brings them onto a shared grid. The series with the denser grid
// inside the overlap wins; the other is linearly interpolated onto it.
func alignVariable(v schema.OutputVariable, baseline, modified *schema.TimeSeries) (schema.VariableDelta, error) {
	start := math.Max(baseline.Start(), modified.Start())
	end := math.Min(baseline.End(), modified.End())
	if start > end {
		return schema.VariableDelta{}, fmt.Errorf("%w: variable %s", schema.ErrNoOverlap, v)
	}

	baseYears := yearsWithin(baseline.Years, start, end)
	modYears := yearsWithin(modified.Years, start, end)
	grid := baseYears
	if len(modYears) > len(baseYears) {
		grid = modYears
	}
	if len(grid) == 0 {
		return schema.VariableDelta{}, fmt.Errorf("%w: variable %s", schema.ErrNoOverlap, v)
	}

	baseVals, err := sampleOnGrid(baseline, grid)
	if err != nil {
		return schema.VariableDelta{}, fmt.Errorf("%w: variable %s: %v", schema.ErrCorruptData, v, err)
	}
	modVals, err := sampleOnGrid(modified, grid)
	if err != nil {
		return schema.VariableDelta{}, fmt.Errorf("%w: variable %s: %v", schema.ErrCorruptData, v, err)
	}

	delta := make([]float64, len(grid))
	for i := range grid {
		delta[i] = modVals[i] - baseVals[i]
	}

	return schema.VariableDelta{
		Variable: v,
		Unit:     baseline.Unit,
		Years:    grid,
		Baseline: baseVals,
		Modified: modVals,
		Delta:    delta,
		Summary:  summarizeDelta(grid, delta),
	}, nil
}

// summarizeDelta condenses a delta series into its headline numbers.
func summarizeDelta(years, delta []float64) schema.DeltaSummary {
	s := schema.DeltaSummary{
		FinalDelta: delta[len(delta)-1],
		FinalYear:  years[len(years)-1],
		PeakDelta:  delta[0],
		PeakYear:   years[0],
	}
	var sum float64
	for i, d := range delta {
		sum += d
		if math.Abs(d) > math.Abs(s.PeakDelta) {
			s.PeakDelta = d
			s.PeakYear = years[i]
		}
	}
	s.MeanDelta = sum / float64(len(delta))
	return s
}

// sortVariableDeltas orders results by peak delta magnitude, largest first,
// with variable name as the tie-breaker so output stays deterministic.
func sortVariableDeltas(results []schema.VariableDelta) {
	sort.SliceStable(results, func(i, j int) bool {
		pi := math.Abs(results[i].Summary.PeakDelta)
		pj := math.Abs(results[j].Summary.PeakDelta)
		if pi != pj {
			return pi > pj
		}
		return results[i].Variable < results[j].Variable
	})
}

// thresholdCrossings reports the first year each projection reaches the
// policy warming thresholds. Absent a surface temperature series there is
// nothing to cross.
func thresholdCrossings(baseline, modified *schema.ProjectionResult) []schema.ThresholdCrossing {
	baseTemp := baseline.Variables[schema.SurfaceTemperature]
	modTemp := modified.Variables[schema.SurfaceTemperature]
	if baseTemp == nil || modTemp == nil {
		return nil
	}

	crossings := make([]schema.ThresholdCrossing, 0, len(schema.WarmingThresholds))
	for _, limit := range schema.WarmingThresholds {
		crossings = append(crossings, schema.ThresholdCrossing{
			Limit:        limit,
			BaselineYear: firstCrossing(baseTemp, limit),
			ModifiedYear: firstCrossing(modTemp, limit),
		})
	}
	return crossings
}

// firstCrossing returns the first grid year at which the series reaches the
// limit, or 0 when the limit is never reached.
func firstCrossing(ts *schema.TimeSeries, limit float64) float64 {
	for i, v := range ts.Values {
		if v >= limit {
			return ts.Years[i]
		}
	}
	return 0
}

// yearsWithin returns the sample years falling inside [start, end].
func yearsWithin(years []float64, start, end float64) []float64 {
	out := make([]float64, 0, len(years))
	for _, y := range years {
		if y >= start && y <= end {
			out = append(out, y)
		}
	}
	return out
}

// sampleOnGrid evaluates a series at each grid year, interpolating between
// sample points where needed.
func sampleOnGrid(ts *schema.TimeSeries, grid []float64) ([]float64, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(ts.Years, ts.Values); err != nil {
		return nil, err
	}
	values := make([]float64, len(grid))
	for i, y := range grid {
		values[i] = pl.Predict(y)
	}
	return values, nil
}
