package core

import (
	"testing"

	"github.com/scendiff/scendiff/core/pathway"
	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPathway(t *testing.T, name schema.ScenarioName) *schema.Pathway {
	t.Helper()
	p, err := pathway.NewStore().Load(name)
	require.NoError(t, err)
	return p
}

func valueAt(t *testing.T, ts *schema.TimeSeries, year float64) float64 {
	t.Helper()
	i, ok := ts.IndexOf(year)
	require.True(t, ok, "year %.1f not on grid", year)
	return ts.Values[i]
}

func TestApplyAdditiveWindow(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: 2.0, From: 2040, To: 2060,
	})
	require.NoError(t, err)

	fossil := d.Series[schema.FossilCO2]
	assert.Equal(t, 12.0, valueAt(t, fossil, 2050))
	assert.InDelta(t, 13.2, valueAt(t, fossil, 2040), 1e-9)
	assert.InDelta(t, 10.4, valueAt(t, fossil, 2060), 1e-9)
	assert.InDelta(t, 10.8, valueAt(t, fossil, 2030), 1e-9) // outside window
	assert.InDelta(t, 6.2, valueAt(t, fossil, 2070), 1e-9)  // outside window
}

func TestApplyLeavesBaseUntouched(t *testing.T) {
	base := loadPathway(t, schema.RCP45)
	fossilBefore := base.Series[schema.FossilCO2].Clone()

	_, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: -3.0, From: 2040, To: 2060,
	})
	require.NoError(t, err)

	assert.Equal(t, fossilBefore.Years, base.Series[schema.FossilCO2].Years)
	assert.Equal(t, fossilBefore.Values, base.Series[schema.FossilCO2].Values)
}

func TestApplySharesUnmodifiedSeries(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.MultiplicativeTransform, Magnitude: 0.5, From: 2020, To: 2100,
	})
	require.NoError(t, err)

	assert.Same(t, base.Series[schema.Methane], d.Series[schema.Methane])
	assert.Same(t, base.Series[schema.NitrousOxide], d.Series[schema.NitrousOxide])
	assert.Same(t, base.Series[schema.LandUseCO2], d.Series[schema.LandUseCO2])
	assert.NotSame(t, base.Series[schema.FossilCO2], d.Series[schema.FossilCO2])
}

func TestApplyBoundaryInterpolation(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: 2.0, From: 2045, To: 2055,
	})
	require.NoError(t, err)

	fossil := d.Series[schema.FossilCO2]
	// Base grid is decadal here, so both boundaries are added with
	// interpolated base values before the offset is applied.
	assert.InDelta(t, 12.6, valueAt(t, fossil, 2045), 1e-9) // interp(11.2, 10.0) + 2
	assert.InDelta(t, 11.2, valueAt(t, fossil, 2055), 1e-9) // interp(10.0, 8.4) + 2
	assert.Equal(t, 12.0, valueAt(t, fossil, 2050))
	assert.InDelta(t, 11.2, valueAt(t, fossil, 2040), 1e-9) // outside window

	// The base grid gains no points.
	_, ok := base.Series[schema.FossilCO2].IndexOf(2045)
	assert.False(t, ok)
}

func TestApplyWindowBetweenGridPoints(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: 1.0, From: 2042, To: 2044,
	})
	require.NoError(t, err)

	fossil := d.Series[schema.FossilCO2]
	// interp at 2042 = 11.2 + (10.0-11.2)*0.2 = 10.96; at 2044 = 10.72
	assert.InDelta(t, 11.96, valueAt(t, fossil, 2042), 1e-9)
	assert.InDelta(t, 11.72, valueAt(t, fossil, 2044), 1e-9)
	assert.InDelta(t, 11.2, valueAt(t, fossil, 2040), 1e-9)
	assert.Equal(t, 10.0, valueAt(t, fossil, 2050))
}

func TestApplyIdentityTransforms(t *testing.T) {
	base := loadPathway(t, schema.RCP45)
	tests := []struct {
		name string
		p    schema.Perturbation
	}{
		{"additive zero", schema.Perturbation{Kind: schema.AdditiveTransform, Magnitude: 0, From: 2020, To: 2080}},
		{"multiplicative one", schema.Perturbation{Kind: schema.MultiplicativeTransform, Magnitude: 1, From: 2020, To: 2080}},
		{"ramp zero", schema.Perturbation{Kind: schema.RampTransform, Magnitude: 0, From: 2020, To: 2080}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ApplyPerturbation(base, tt.p)
			require.NoError(t, err)

			fossil := base.Series[schema.FossilCO2]
			derived := d.Series[schema.FossilCO2]
			for i, year := range fossil.Years {
				assert.Equal(t, fossil.Values[i], valueAt(t, derived, year), "year %.0f", year)
			}
		})
	}
}

func TestApplyInvalidMagnitude(t *testing.T) {
	base := loadPathway(t, schema.RCP45)
	tests := []struct {
		name string
		p    schema.Perturbation
	}{
		{"negative scale", schema.Perturbation{Kind: schema.MultiplicativeTransform, Magnitude: -0.5, From: 2020, To: 2080}},
		{"ramp above one", schema.Perturbation{Kind: schema.RampTransform, Magnitude: 1.5, From: 2020, To: 2080}},
		{"ramp below zero", schema.Perturbation{Kind: schema.RampTransform, Magnitude: -0.1, From: 2020, To: 2080}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ApplyPerturbation(base, tt.p)
			assert.ErrorIs(t, err, schema.ErrInvalidMagnitude)
			assert.Nil(t, d)
		})
	}
}

func TestApplyInvalidWindow(t *testing.T) {
	base := loadPathway(t, schema.RCP45)
	tests := []struct {
		name string
		p    schema.Perturbation
	}{
		{"start after end", schema.Perturbation{Kind: schema.AdditiveTransform, Magnitude: 1, From: 2060, To: 2040}},
		{"before horizon", schema.Perturbation{Kind: schema.AdditiveTransform, Magnitude: 1, From: 1500, To: 1600}},
		{"after horizon", schema.Perturbation{Kind: schema.AdditiveTransform, Magnitude: 1, From: 2200, To: 2300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ApplyPerturbation(base, tt.p)
			assert.ErrorIs(t, err, schema.ErrInvalidWindow)
			assert.Nil(t, d)
		})
	}
}

func TestApplyWindowClampedToHorizon(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: 1.0, From: 2090, To: 2500,
	})
	require.NoError(t, err)

	fossil := d.Series[schema.FossilCO2]
	assert.InDelta(t, 5.2, valueAt(t, fossil, 2090), 1e-9)
	assert.InDelta(t, 5.2, valueAt(t, fossil, 2100), 1e-9)
	assert.Equal(t, 2100.0, fossil.End())
}

func TestApplyPhysicalConstraintViolation(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: -20.0, From: 2040, To: 2060,
	})
	assert.ErrorIs(t, err, schema.ErrPhysicalConstraint)
	assert.Nil(t, d)
	// The first offending year is reported.
	assert.Contains(t, err.Error(), "2040")

	// The base pathway stays valid for further use.
	assert.Equal(t, 10.0, valueAt(t, base.Series[schema.FossilCO2], 2050))
}

func TestApplyAbsoluteZeroFullHorizon(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AbsoluteTransform, Magnitude: 0, From: 1765, To: 2100,
	})
	require.NoError(t, err)

	for _, v := range d.Series[schema.FossilCO2].Values {
		assert.Equal(t, 0.0, v)
	}
}

func TestApplyRamp(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.RampTransform, Magnitude: 0.5, From: 2020, To: 2060,
	})
	require.NoError(t, err)

	fossil := d.Series[schema.FossilCO2]
	assert.InDelta(t, 6.735, valueAt(t, fossil, 2000), 1e-9) // before ramp
	assert.InDelta(t, 10.0, valueAt(t, fossil, 2020), 1e-9)  // ramp start, no reduction yet
	assert.InDelta(t, 8.4, valueAt(t, fossil, 2040), 1e-9)   // halfway: 11.2 * 0.75
	assert.InDelta(t, 4.2, valueAt(t, fossil, 2060), 1e-9)   // full reduction: 8.4 * 0.5
	assert.InDelta(t, 2.1, valueAt(t, fossil, 2080), 1e-9)   // reduction holds: 4.2 * 0.5
	assert.InDelta(t, 2.1, valueAt(t, fossil, 2100), 1e-9)
}

func TestSummarizeEmissionsDelta(t *testing.T) {
	base := loadPathway(t, schema.RCP45)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: 2.0, From: 2040, To: 2060,
	})
	require.NoError(t, err)

	summary := SummarizeEmissionsDelta(d)
	require.NotNil(t, summary)
	assert.Equal(t, schema.FossilCO2, summary.Species)
	assert.InDelta(t, 2.0, summary.PeakDelta, 1e-9)
	assert.Equal(t, 2040.0, summary.PeakYear)
	// Trapezoid over the delta profile: ramps over the flanking decades
	// plus the flat +2 plateau between 2040 and 2060.
	assert.InDelta(t, 60.0, summary.CumulativeDelta, 1e-9)
}

func TestSummarizeEmissionsDeltaIdentity(t *testing.T) {
	base := loadPathway(t, schema.RCP26)

	d, err := ApplyPerturbation(base, schema.Perturbation{
		Kind: schema.AdditiveTransform, Magnitude: 0, From: 1765, To: 2100,
	})
	require.NoError(t, err)

	summary := SummarizeEmissionsDelta(d)
	require.NotNil(t, summary)
	assert.InDelta(t, 0.0, summary.CumulativeDelta, 1e-9)
	assert.InDelta(t, 0.0, summary.PeakDelta, 1e-9)
}
