package core

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
	"gonum.org/v1/gonum/interp"
)

// Engine exchange constants. The scenario file format and flag vector are
// the fixed contract with the projection engine binary.
const (
	scenarioHeader   = "SCENDIFF-SCEN 1"
	scenarioFileName = "scenario.scen"
	engineOutDir     = "out"
	engineTimestep   = 1.0
)

// pathwaySource is the common surface of Pathway and DerivedPathway that
// projection needs: a provenance label, an exact cache identity and the
// emission series to serialize.
type pathwaySource interface {
	Label() string
	CacheKey() string
	SpeciesSeries() map[schema.Species]*schema.TimeSeries
	Horizon() (start, end float64)
	SortedSpecies() []schema.Species
}

// projectPathway serializes a pathway, invokes the engine in a fresh scratch
// directory and parses the per-variable output files. The scratch directory
// is removed on every path, success or failure.
func projectPathway(ctx context.Context, cfg *contract.Config, client contract.EngineClient, src pathwaySource) (*schema.ProjectionResult, error) {
	start := time.Now()
	runUID := uuid.NewString()

	// --- 1. Scratch Directory Setup ---
	dir, err := os.MkdirTemp("", "scendiff-"+runUID[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	outDir := filepath.Join(dir, engineOutDir)
	if err := os.Mkdir(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("create engine output dir: %w", err)
	}

	// --- 2. Scenario Serialization ---
	scenPath := filepath.Join(dir, scenarioFileName)
	if err := writeScenarioFile(scenPath, src); err != nil {
		return nil, err
	}

	// --- 3. Engine Invocation (bounded by the configured timeout) ---
	startYear, endYear := src.Horizon()
	runCtx, cancel := context.WithTimeout(ctx, cfg.EngineTimeout)
	defer cancel()
	req := contract.EngineRequest{
		Command:      cfg.EngineCommand,
		ScenarioPath: scenPath,
		OutDir:       outDir,
		StartYear:    startYear,
		EndYear:      endYear,
		Timestep:     engineTimestep,
		Variables:    cfg.Variables,
	}
	if err := client.Invoke(runCtx, req); err != nil {
		return nil, err
	}

	// --- 4. Output Parsing ---
	variables := make(map[schema.OutputVariable]*schema.TimeSeries, len(cfg.Variables))
	for _, v := range cfg.Variables {
		ts, err := parseEngineCSV(filepath.Join(outDir, string(v)+".csv"), schema.VariableUnit(v))
		if err != nil {
			return nil, fmt.Errorf("%w: variable %s: %v", schema.ErrEngineInvocation, v, err)
		}
		variables[v] = ts
	}

	return &schema.ProjectionResult{
		Source:    src.Label(),
		StartYear: startYear,
		EndYear:   endYear,
		Variables: variables,
		Engine: schema.EngineRunInfo{
			Command: cfg.EngineCommand,
			RunUID:  runUID,
			Elapsed: time.Since(start),
		},
		GeneratedAt: time.Now(),
	}, nil
}

// writeScenarioFile renders the engine exchange format: a version header
// followed by one SERIES block per species, in lexical species order. Each
// series is resampled to the engine timestep, and annual carbon rates are
// converted from Gt C/yr to the Mt C/yr the engine expects.
func writeScenarioFile(path string, src pathwaySource) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scenario file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, scenarioHeader)
	series := src.SpeciesSeries()
	for _, sp := range src.SortedSpecies() {
		ts, unit := convertForEngine(series[sp])
		resampled := resampleToGrid(ts, annualGrid(ts.Start(), ts.End()))
		fmt.Fprintf(w, "SERIES %s %s\n", sp, unit)
		for i, year := range resampled.Years {
			fmt.Fprintf(w, "%.0f %.6f\n", year, resampled.Values[i])
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write scenario file: %w", err)
	}
	return nil
}

// convertForEngine rescales a series into the unit the engine consumes.
// Only the Gt-to-Mt carbon conversion applies today; other species already
// carry engine units.
func convertForEngine(ts *schema.TimeSeries) (*schema.TimeSeries, string) {
	if ts.Unit != schema.UnitGtCPerYear {
		return ts, ts.Unit
	}
	values := make([]float64, len(ts.Values))
	for i, v := range ts.Values {
		values[i] = v * 1000
	}
	return schema.NewTimeSeries(ts.Years, values, schema.UnitMtCPerYear), schema.UnitMtCPerYear
}

// annualGrid returns the inclusive [start, end] grid at the engine timestep.
func annualGrid(start, end float64) []float64 {
	n := int((end-start)/engineTimestep) + 1
	grid := make([]float64, 0, n)
	for y := start; y <= end+1e-9; y += engineTimestep {
		grid = append(grid, y)
	}
	return grid
}

// resampleToGrid interpolates a series onto a target year grid. Grid points
// coinciding with sample points pass through unchanged.
func resampleToGrid(ts *schema.TimeSeries, grid []float64) *schema.TimeSeries {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(ts.Years, ts.Values); err != nil {
		// Fit only fails on malformed grids, which Validate rules out upstream.
		return ts
	}
	values := make([]float64, len(grid))
	for i, y := range grid {
		values[i] = pl.Predict(y)
	}
	return schema.NewTimeSeries(grid, values, ts.Unit)
}

// parseEngineCSV reads one per-variable engine output file: a "year,value"
// header followed by numeric rows in strictly increasing year order.
func parseEngineCSV(path, unit string) (*schema.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("missing engine output: %v", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %v", err)
	}
	if header[0] != "year" || header[1] != "value" {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	var years, values []float64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %v", err)
		}
		year, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric year %q", record[0])
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric value %q at year %s", record[1], record[0])
		}
		if len(years) > 0 && year <= years[len(years)-1] {
			return nil, fmt.Errorf("years not strictly increasing at %g", year)
		}
		years = append(years, year)
		values = append(values, value)
	}
	if len(years) < 2 {
		return nil, fmt.Errorf("need at least 2 rows, got %d", len(years))
	}
	return schema.NewTimeSeries(years, values, unit), nil
}
