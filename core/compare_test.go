package core

import (
	"testing"
	"time"

	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projection(source string, vars map[schema.OutputVariable]*schema.TimeSeries) *schema.ProjectionResult {
	var start, end float64
	first := true
	for _, ts := range vars {
		if first {
			start, end = ts.Start(), ts.End()
			first = false
			continue
		}
		if ts.Start() < start {
			start = ts.Start()
		}
		if ts.End() > end {
			end = ts.End()
		}
	}
	return &schema.ProjectionResult{
		Source:      source,
		StartYear:   start,
		EndYear:     end,
		Variables:   vars,
		GeneratedAt: time.Now(),
	}
}

func tempSeries(years, values []float64) *schema.TimeSeries {
	return schema.NewTimeSeries(years, values, schema.UnitDegC)
}

func TestCompareProjectionsDeltas(t *testing.T) {
	baseline := projection("rcp45", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2050, 2100}, []float64{0.5, 1.2, 2.0}),
	})
	modified := projection("rcp45+additive", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2050, 2100}, []float64{0.5, 1.5, 2.6}),
	})

	report, err := compareProjections(baseline, modified)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	vd := report.Results[0]
	assert.Equal(t, schema.SurfaceTemperature, vd.Variable)
	assert.Equal(t, []float64{2000, 2050, 2100}, vd.Years)
	assert.InDeltaSlice(t, []float64{0, 0.3, 0.6}, vd.Delta, 1e-9)
	assert.InDelta(t, 0.6, vd.Summary.FinalDelta, 1e-9)
	assert.InDelta(t, 0.6, vd.Summary.PeakDelta, 1e-9)
	assert.Equal(t, 2100.0, vd.Summary.PeakYear)
	assert.InDelta(t, 0.3, vd.Summary.MeanDelta, 1e-9)

	assert.Equal(t, 2000.0, report.Summary.OverlapStart)
	assert.Equal(t, 2100.0, report.Summary.OverlapEnd)
	assert.InDelta(t, 0.6, report.Summary.MaxAbsDelta, 1e-9)
	assert.Equal(t, schema.SurfaceTemperature, report.Summary.MaxAbsDeltaVariable)
}

func TestCompareProjectionsSelfIsZero(t *testing.T) {
	r := projection("rcp45", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries(
			[]float64{2000, 2025, 2050, 2075, 2100},
			[]float64{0.5, 0.9, 1.2, 1.6, 2.0},
		),
		schema.CO2Concentration: schema.NewTimeSeries(
			[]float64{2000, 2050, 2100},
			[]float64{370, 480, 540},
			schema.UnitPPM,
		),
	})

	// Comparing a projection against itself must yield zero everywhere.
	report, err := compareProjections(r, r)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	for _, vd := range report.Results {
		for i, d := range vd.Delta {
			assert.Zero(t, d, "variable %s year %.0f", vd.Variable, vd.Years[i])
		}
		assert.Zero(t, vd.Summary.PeakDelta)
		assert.Zero(t, vd.Summary.FinalDelta)
		assert.Zero(t, vd.Summary.MeanDelta)
	}
	assert.Zero(t, report.Summary.MaxAbsDelta)
}

func TestCompareProjectionsResamplesCoarserGrid(t *testing.T) {
	// Baseline sampled every 50 years, modified annually over a subrange.
	baseline := projection("a", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2050, 2100}, []float64{0, 1, 2}),
	})
	modYears := make([]float64, 0, 51)
	modValues := make([]float64, 0, 51)
	for y := 2025.0; y <= 2075; y++ {
		modYears = append(modYears, y)
		modValues = append(modValues, 1.0)
	}
	modified := projection("b", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries(modYears, modValues),
	})

	report, err := compareProjections(baseline, modified)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	vd := report.Results[0]
	// The denser modified grid wins; the baseline is interpolated onto it.
	assert.Equal(t, modYears, vd.Years)
	assert.InDelta(t, 0.5, vd.Baseline[0], 1e-9, "baseline at 2025 interpolates between 2000 and 2050")
	assert.InDelta(t, 0.5, vd.Delta[0], 1e-9)
	assert.InDelta(t, -0.5, vd.Delta[len(vd.Delta)-1], 1e-9)
}

func TestCompareProjectionsIncompatibleVariables(t *testing.T) {
	baseline := projection("a", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2100}, []float64{0, 1}),
	})
	modified := projection("b", map[schema.OutputVariable]*schema.TimeSeries{
		schema.CO2Concentration: schema.NewTimeSeries([]float64{2000, 2100}, []float64{350, 500}, schema.UnitPPM),
	})

	_, err := compareProjections(baseline, modified)
	assert.ErrorIs(t, err, schema.ErrIncompatibleResults)
}

func TestCompareProjectionsNoOverlap(t *testing.T) {
	baseline := projection("a", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{1900, 1950}, []float64{0, 0.2}),
	})
	modified := projection("b", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2100}, []float64{0.5, 2.0}),
	})

	_, err := compareProjections(baseline, modified)
	assert.ErrorIs(t, err, schema.ErrNoOverlap)
}

func TestCompareProjectionsThresholdCrossings(t *testing.T) {
	baseline := projection("a", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries(
			[]float64{2000, 2040, 2080, 2100},
			[]float64{0.8, 1.4, 1.9, 2.1},
		),
	})
	modified := projection("b", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries(
			[]float64{2000, 2040, 2080, 2100},
			[]float64{0.8, 1.6, 2.2, 2.5},
		),
	})

	report, err := compareProjections(baseline, modified)
	require.NoError(t, err)
	require.Len(t, report.Summary.Crossings, len(schema.WarmingThresholds))

	byLimit := make(map[float64]schema.ThresholdCrossing)
	for _, c := range report.Summary.Crossings {
		byLimit[c.Limit] = c
	}
	assert.Equal(t, 2080.0, byLimit[1.5].BaselineYear)
	assert.Equal(t, 2040.0, byLimit[1.5].ModifiedYear)
	assert.Equal(t, 2100.0, byLimit[2.0].BaselineYear)
	assert.Equal(t, 2080.0, byLimit[2.0].ModifiedYear)
}

func TestCompareProjectionsCrossingNeverReached(t *testing.T) {
	baseline := projection("a", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2100}, []float64{0.2, 1.0}),
	})
	modified := projection("b", map[schema.OutputVariable]*schema.TimeSeries{
		schema.SurfaceTemperature: tempSeries([]float64{2000, 2100}, []float64{0.2, 1.1}),
	})

	report, err := compareProjections(baseline, modified)
	require.NoError(t, err)
	for _, c := range report.Summary.Crossings {
		assert.Zero(t, c.BaselineYear, "limit %.1f never reached", c.Limit)
		assert.Zero(t, c.ModifiedYear, "limit %.1f never reached", c.Limit)
	}
}

func TestSortVariableDeltas(t *testing.T) {
	results := []schema.VariableDelta{
		{Variable: schema.SurfaceTemperature, Summary: schema.DeltaSummary{PeakDelta: 0.3}},
		{Variable: schema.CO2Concentration, Summary: schema.DeltaSummary{PeakDelta: -12.0}},
	}
	sortVariableDeltas(results)
	assert.Equal(t, schema.CO2Concentration, results[0].Variable, "largest magnitude first")
}
