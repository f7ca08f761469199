// Package pathway loads and caches the built-in RCP scenario catalog.
package pathway

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/scendiff/scendiff/schema"
)

// Store loads catalog scenarios on demand and caches the parsed pathways.
// Loading is idempotent: repeated loads of the same scenario return the same
// immutable *Pathway without touching the embedded data again.
type Store struct {
	mu     sync.RWMutex
	loaded map[schema.ScenarioName]*schema.Pathway
}

// NewStore returns an empty store backed by the embedded catalog.
func NewStore() *Store {
	return &Store{loaded: make(map[schema.ScenarioName]*schema.Pathway)}
}

// Scenarios returns the catalog scenario names in display order.
func (s *Store) Scenarios() []schema.ScenarioName {
	return schema.AllScenarios
}

// Description returns the one-line summary for a catalog scenario.
func (s *Store) Description(name schema.ScenarioName) string {
	return catalogDescriptions[name]
}

// Load returns the pathway for a catalog scenario, parsing the embedded data
// on first use. Unknown names yield ErrUnknownScenario; structural problems
// in the data yield ErrCorruptData.
func (s *Store) Load(name schema.ScenarioName) (*schema.Pathway, error) {
	s.mu.RLock()
	if p, ok := s.loaded[name]; ok {
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	file, ok := catalogFiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (catalog: %s)", schema.ErrUnknownScenario, name, catalogList())
	}

	f, err := catalogFS.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: scenario %s: %v", schema.ErrCorruptData, name, err)
	}
	defer func() { _ = f.Close() }()

	series, err := parseCatalogCSV(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}

	p := &schema.Pathway{
		Scenario:    name,
		Description: catalogDescriptions[name],
		Series:      series,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent load may have won the race; keep the first pathway so
	// callers always observe a single shared instance.
	if existing, ok := s.loaded[name]; ok {
		return existing, nil
	}
	s.loaded[name] = p
	return p, nil
}

// parseCatalogCSV reads a wide-format catalog file: a year column followed by
// one column per emission species.
func parseCatalogCSV(r io.Reader) (map[schema.Species]*schema.TimeSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", schema.ErrCorruptData, err)
	}
	if len(header) < 2 || header[0] != "year" {
		return nil, fmt.Errorf("%w: header must start with year column", schema.ErrCorruptData)
	}

	species := make([]schema.Species, 0, len(header)-1)
	for _, col := range header[1:] {
		sp := schema.Species(col)
		if schema.SpeciesUnit(sp) == "" {
			return nil, fmt.Errorf("%w: unknown species column %q", schema.ErrCorruptData, col)
		}
		species = append(species, sp)
	}

	years := make([]float64, 0, 32)
	values := make([][]float64, len(species))
	for i := range values {
		values[i] = make([]float64, 0, 32)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrCorruptData, err)
		}
		year, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad year %q", schema.ErrCorruptData, record[0])
		}
		years = append(years, year)
		for i := range species {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad value %q for %s at year %.0f", schema.ErrCorruptData, record[i+1], species[i], year)
			}
			values[i] = append(values[i], v)
		}
	}

	series := make(map[schema.Species]*schema.TimeSeries, len(species))
	for i, sp := range species {
		yearsCopy := make([]float64, len(years))
		copy(yearsCopy, years)
		ts := schema.NewTimeSeries(yearsCopy, values[i], schema.SpeciesUnit(sp))
		if err := ts.Validate(); err != nil {
			return nil, fmt.Errorf("species %s: %w", sp, err)
		}
		series[sp] = ts
	}

	fossil, ok := series[schema.FossilCO2]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s series", schema.ErrCorruptData, schema.FossilCO2)
	}
	for i, v := range fossil.Values {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative %s at year %.0f", schema.ErrCorruptData, schema.FossilCO2, fossil.Years[i])
		}
	}

	return series, nil
}

func catalogList() string {
	names := make([]string, len(schema.AllScenarios))
	for i, s := range schema.AllScenarios {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
