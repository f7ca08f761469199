// Package schema has configs, models and global variables for all parts of scendiff.
package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// TimeSeries is a sampled quantity over calendar years. Years are strictly
// increasing and Values is index-aligned with Years. The time axis is shared
// by emission inputs and projected outputs; grids may differ between series.
type TimeSeries struct {
	Years  []float64 `json:"years"`
	Values []float64 `json:"values"`
	Unit   string    `json:"unit"`
}

// NewTimeSeries builds a series from parallel year and value slices.
// The slices are referenced, not copied.
func NewTimeSeries(years, values []float64, unit string) *TimeSeries {
	return &TimeSeries{Years: years, Values: values, Unit: unit}
}

// Len returns the number of sample points.
func (ts *TimeSeries) Len() int {
	return len(ts.Years)
}

// Start returns the first year of the series. Callers must ensure Len() > 0.
func (ts *TimeSeries) Start() float64 {
	return ts.Years[0]
}

// End returns the last year of the series. Callers must ensure Len() > 0.
func (ts *TimeSeries) End() float64 {
	return ts.Years[len(ts.Years)-1]
}

// Clone returns a deep copy with freshly allocated slices.
func (ts *TimeSeries) Clone() *TimeSeries {
	years := make([]float64, len(ts.Years))
	copy(years, ts.Years)
	values := make([]float64, len(ts.Values))
	copy(values, ts.Values)
	return &TimeSeries{Years: years, Values: values, Unit: ts.Unit}
}

// IndexOf returns the index of an exact grid year, or false when the year
// is not a sample point.
func (ts *TimeSeries) IndexOf(year float64) (int, bool) {
	i := sort.SearchFloat64s(ts.Years, year)
	if i < len(ts.Years) && ts.Years[i] == year {
		return i, true
	}
	return 0, false
}

// Validate checks the structural invariants of the series: aligned slices,
// at least two points, strictly increasing years and finite values.
func (ts *TimeSeries) Validate() error {
	if len(ts.Years) != len(ts.Values) {
		return fmt.Errorf("%w: %d years vs %d values", ErrCorruptData, len(ts.Years), len(ts.Values))
	}
	if len(ts.Years) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrCorruptData, len(ts.Years))
	}
	for i, y := range ts.Years {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return fmt.Errorf("%w: non-finite year at index %d", ErrCorruptData, i)
		}
		if i > 0 && y <= ts.Years[i-1] {
			return fmt.Errorf("%w: years not strictly increasing at index %d (%.2f after %.2f)", ErrCorruptData, i, y, ts.Years[i-1])
		}
	}
	for i, v := range ts.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at year %.2f", ErrCorruptData, ts.Years[i])
		}
	}
	return nil
}

// Perturbation describes a single transform of the fossil CO2 series over
// a closed year window [From, To].
type Perturbation struct {
	Kind      TransformKind `json:"kind"`
	Magnitude float64       `json:"magnitude"`
	From      float64       `json:"from"`
	To        float64       `json:"to"`
}

// String renders a compact label like "additive(+2.000)[2040,2060]" used in
// provenance lines and run records. Display only: the rounding makes it
// unsuitable as a cache identity.
func (p Perturbation) String() string {
	return fmt.Sprintf("%s(%+.3f)[%.0f,%.0f]", p.Kind, p.Magnitude, p.From, p.To)
}

// CacheKey renders the transform parameters at full float precision, so
// perturbations differing below the display rounding (fractional window
// boundaries, sub-millimagnitude deltas) never share a key.
func (p Perturbation) CacheKey() string {
	return fmt.Sprintf("%s(%s)[%s,%s]", p.Kind,
		strconv.FormatFloat(p.Magnitude, 'g', -1, 64),
		strconv.FormatFloat(p.From, 'g', -1, 64),
		strconv.FormatFloat(p.To, 'g', -1, 64),
	)
}

// Pathway is an immutable catalog scenario: a named set of emission series.
// Loaded pathways are shared across the process and must never be mutated.
type Pathway struct {
	Scenario    ScenarioName
	Description string
	Series      map[Species]*TimeSeries
}

// Label returns the scenario identifier for logs and reports.
func (p *Pathway) Label() string {
	return string(p.Scenario)
}

// CacheKey returns the pathway identity for projection caching. Catalog
// pathways are identified by scenario name alone.
func (p *Pathway) CacheKey() string {
	return string(p.Scenario)
}

// SpeciesSeries returns the emission series keyed by species.
func (p *Pathway) SpeciesSeries() map[Species]*TimeSeries {
	return p.Series
}

// Horizon returns the union time range covered by all series.
func (p *Pathway) Horizon() (start, end float64) {
	return seriesHorizon(p.Series)
}

// SortedSpecies returns the species identifiers in lexical order, giving a
// deterministic iteration order over the Series map.
func (p *Pathway) SortedSpecies() []Species {
	return sortedSpecies(p.Series)
}

// DerivedPathway is the result of applying a perturbation to a base pathway.
// Series not touched by the transform share storage with the base; the fossil
// CO2 series is a fresh copy carrying the transformed values.
type DerivedPathway struct {
	Base         *Pathway
	Perturbation Perturbation
	Series       map[Species]*TimeSeries
}

// Label returns a provenance label combining base scenario and perturbation.
func (d *DerivedPathway) Label() string {
	return fmt.Sprintf("%s+%s", d.Base.Scenario, d.Perturbation)
}

// CacheKey combines the base scenario with the exact perturbation parameters.
func (d *DerivedPathway) CacheKey() string {
	return fmt.Sprintf("%s+%s", d.Base.Scenario, d.Perturbation.CacheKey())
}

// SpeciesSeries returns the emission series keyed by species.
func (d *DerivedPathway) SpeciesSeries() map[Species]*TimeSeries {
	return d.Series
}

// Horizon returns the union time range covered by all series.
func (d *DerivedPathway) Horizon() (start, end float64) {
	return seriesHorizon(d.Series)
}

// SortedSpecies returns the species identifiers in lexical order.
func (d *DerivedPathway) SortedSpecies() []Species {
	return sortedSpecies(d.Series)
}

func seriesHorizon(series map[Species]*TimeSeries) (start, end float64) {
	first := true
	for _, ts := range series {
		if ts.Len() == 0 {
			continue
		}
		if first {
			start, end = ts.Start(), ts.End()
			first = false
			continue
		}
		start = math.Min(start, ts.Start())
		end = math.Max(end, ts.End())
	}
	return start, end
}

func sortedSpecies(series map[Species]*TimeSeries) []Species {
	keys := make([]Species, 0, len(series))
	for sp := range series {
		keys = append(keys, sp)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
