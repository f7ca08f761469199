package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/scendiff/scendiff/schema"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"
)

// ApplyPerturbation applies a transform to the fossil CO2 series of a base
// pathway and returns a derived pathway. The base is never mutated: the
// derived pathway carries a fresh fossil series and shares every other series
// with the base.
//
// Window boundaries that fall between grid points are added to the derived
// grid with linearly interpolated base values, so the transform covers the
// exact [From, To] range the caller asked for.
func ApplyPerturbation(base *schema.Pathway, p schema.Perturbation) (*schema.DerivedPathway, error) {
	if _, ok := schema.ValidTransforms[p.Kind]; !ok {
		return nil, fmt.Errorf("unknown transform %q", p.Kind)
	}
	if err := validateMagnitude(p); err != nil {
		return nil, err
	}

	fossil, ok := base.Series[schema.FossilCO2]
	if !ok {
		return nil, fmt.Errorf("%w: pathway %s has no %s series", schema.ErrCorruptData, base.Scenario, schema.FossilCO2)
	}

	from, to, err := clampWindow(p, fossil)
	if err != nil {
		return nil, err
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(fossil.Years, fossil.Values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", schema.ErrCorruptData, schema.FossilCO2, err)
	}

	years := append([]float64(nil), fossil.Years...)
	values := append([]float64(nil), fossil.Values...)
	years, values = insertGridPoint(years, values, pl, from)
	years, values = insertGridPoint(years, values, pl, to)

	for i, year := range years {
		values[i] = transformValue(p, from, to, year, values[i])
	}

	for i, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("%w: %s would reach %.3f %s at year %.1f",
				schema.ErrPhysicalConstraint, schema.FossilCO2, v, fossil.Unit, years[i])
		}
	}

	series := make(map[schema.Species]*schema.TimeSeries, len(base.Series))
	for sp, ts := range base.Series {
		series[sp] = ts
	}
	series[schema.FossilCO2] = schema.NewTimeSeries(years, values, fossil.Unit)

	return &schema.DerivedPathway{
		Base:         base,
		Perturbation: p,
		Series:       series,
	}, nil
}

// SummarizeEmissionsDelta condenses the fossil CO2 difference between a
// derived pathway and its base: the cumulative delta over the horizon via
// trapezoidal integration, plus the peak per-year delta.
func SummarizeEmissionsDelta(d *schema.DerivedPathway) *schema.EmissionsSummary {
	derived := d.Series[schema.FossilCO2]
	base := d.Base.Series[schema.FossilCO2]
	if derived == nil || base == nil || derived.Len() < 2 {
		return nil
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(base.Years, base.Values); err != nil {
		return nil
	}

	delta := make([]float64, derived.Len())
	peak, peakYear := 0.0, derived.Years[0]
	for i, year := range derived.Years {
		delta[i] = derived.Values[i] - pl.Predict(year)
		if math.Abs(delta[i]) > math.Abs(peak) {
			peak, peakYear = delta[i], year
		}
	}

	return &schema.EmissionsSummary{
		Species:         schema.FossilCO2,
		Unit:            derived.Unit,
		CumulativeDelta: integrate.Trapezoidal(derived.Years, delta),
		PeakDelta:       peak,
		PeakYear:        peakYear,
	}
}

// validateMagnitude rejects magnitudes that are not meaningful for the
// requested transform. Additive and absolute magnitudes only need to be
// finite; the physical constraint scan catches the rest.
func validateMagnitude(p schema.Perturbation) error {
	if math.IsNaN(p.Magnitude) || math.IsInf(p.Magnitude, 0) {
		return fmt.Errorf("%w: %s magnitude must be finite", schema.ErrInvalidMagnitude, p.Kind)
	}
	switch p.Kind {
	case schema.MultiplicativeTransform:
		if p.Magnitude < 0 {
			return fmt.Errorf("%w: multiplicative scale %.3f must be >= 0", schema.ErrInvalidMagnitude, p.Magnitude)
		}
	case schema.RampTransform:
		if p.Magnitude < 0 || p.Magnitude > 1 {
			return fmt.Errorf("%w: ramp reduction %.3f must be in [0,1]", schema.ErrInvalidMagnitude, p.Magnitude)
		}
	}
	return nil
}

// clampWindow validates the perturbation window against the series horizon
// and clips it to the covered range.
func clampWindow(p schema.Perturbation, ts *schema.TimeSeries) (from, to float64, err error) {
	if math.IsNaN(p.From) || math.IsNaN(p.To) {
		return 0, 0, fmt.Errorf("%w: window bounds must be finite", schema.ErrInvalidWindow)
	}
	if p.From > p.To {
		return 0, 0, fmt.Errorf("%w: start %.1f is after end %.1f", schema.ErrInvalidWindow, p.From, p.To)
	}
	start, end := ts.Start(), ts.End()
	if p.To < start || p.From > end {
		return 0, 0, fmt.Errorf("%w: [%.1f,%.1f] lies outside horizon [%.0f,%.0f]",
			schema.ErrInvalidWindow, p.From, p.To, start, end)
	}
	return math.Max(p.From, start), math.Min(p.To, end), nil
}

// transformValue applies the transform rule at a single grid year. Points
// outside the window pass through unchanged, except for the ramp which holds
// its final reduction from the window end to the horizon end.
func transformValue(p schema.Perturbation, from, to, year, value float64) float64 {
	if p.Kind == schema.RampTransform {
		if year < from {
			return value
		}
		frac := 1.0
		if year < to {
			frac = (year - from) / (to - from)
		}
		return value * (1 - p.Magnitude*frac)
	}

	if year < from || year > to {
		return value
	}
	switch p.Kind {
	case schema.AdditiveTransform:
		return value + p.Magnitude
	case schema.MultiplicativeTransform:
		return value * p.Magnitude
	case schema.AbsoluteTransform:
		return p.Magnitude
	}
	return value
}

// insertGridPoint adds a year to the grid with its interpolated value. Years
// outside the open horizon interval or already on the grid are left alone.
func insertGridPoint(years, values []float64, pl interp.PiecewiseLinear, year float64) ([]float64, []float64) {
	if year <= years[0] || year >= years[len(years)-1] {
		return years, values
	}
	i := sort.SearchFloat64s(years, year)
	if years[i] == year {
		return years, values
	}
	years = append(years, 0)
	copy(years[i+1:], years[i:])
	years[i] = year
	values = append(values, 0)
	copy(values[i+1:], values[i:])
	values[i] = pl.Predict(year)
	return years, values
}
