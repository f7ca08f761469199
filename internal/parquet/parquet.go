// Package parquet provides data structures and functions for exporting
// scendiff run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/scendiff/scendiff/schema"
)

// Run represents a single modify-and-compare run with metadata.
// This struct maps to the scendiff_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUID is the correlation id shared with engine scratch directories
	RunUID string `parquet:"run_uid,snappy"`

	// Scenario is the baseline scenario name (e.g. rcp45)
	Scenario string `parquet:"scenario,snappy"`

	// Transform is the perturbation transform applied to the scenario
	Transform string `parquet:"transform,snappy"`

	// Magnitude is the perturbation magnitude
	Magnitude float64 `parquet:"magnitude,snappy"`

	// WindowFrom is the first year of the perturbation window
	WindowFrom float64 `parquet:"window_from,snappy"`

	// WindowTo is the last year of the perturbation window
	WindowTo float64 `parquet:"window_to,snappy"`

	// EngineCommand is the climate engine executable that was invoked
	EngineCommand string `parquet:"engine_command,snappy"`

	// Outcome is the final state of the run (running, completed, failed)
	Outcome string `parquet:"outcome,snappy"`

	// ErrorMessage holds the failure reason for failed runs (nullable)
	ErrorMessage *string `parquet:"error_message,optional,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// DurationMs is the duration of the run in milliseconds (nullable)
	DurationMs *int32 `parquet:"duration_ms,optional,snappy"`

	// MaxAbsDelta is the largest absolute delta across all projected variables
	MaxAbsDelta float64 `parquet:"max_abs_delta,snappy"`
}

// RunDelta represents the headline numbers for one projected variable of one run.
// This struct maps to the scendiff_run_deltas database table.
type RunDelta struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// Variable is the projected output variable (e.g. surface-temperature)
	Variable string `parquet:"variable,snappy"`

	// Unit is the unit of the variable's values
	Unit string `parquet:"unit,snappy"`

	// OverlapStart is the first year of the compared overlap window
	OverlapStart float64 `parquet:"overlap_start,snappy"`

	// OverlapEnd is the last year of the compared overlap window
	OverlapEnd float64 `parquet:"overlap_end,snappy"`

	// FinalDelta is the modified-minus-baseline difference at the last overlap year
	FinalDelta float64 `parquet:"final_delta,snappy"`

	// PeakDelta is the largest-magnitude difference across the overlap
	PeakDelta float64 `parquet:"peak_delta,snappy"`

	// PeakYear is the year at which the peak difference occurs
	PeakYear float64 `parquet:"peak_year,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteDeltasParquet writes a slice of RunDelta structs to a Parquet file.
func WriteDeltasParquet(data []RunDelta, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RunDelta struct tags
	writer := parquet.NewGenericWriter[RunDelta](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ProjectionPoint represents one projected value in long format: one row
// per variable per year. This is the shape produced by parquet exports of
// projection and comparison output.
type ProjectionPoint struct {
	// Source is the label of the pathway that was projected
	Source string `parquet:"source,snappy"`

	// Variable is the projected output variable
	Variable string `parquet:"variable,snappy"`

	// Unit is the unit of the value
	Unit string `parquet:"unit,snappy"`

	// Year is the projection year
	Year float64 `parquet:"year,snappy"`

	// Value is the projected value at Year
	Value float64 `parquet:"value,snappy"`
}

// WriteProjectionParquet writes a slice of ProjectionPoint structs to a Parquet file.
func WriteProjectionParquet(data []ProjectionPoint, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ProjectionPoint](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertProjectionResult flattens a projection into long-format points,
// ordered by variable then year.
func ConvertProjectionResult(result *schema.ProjectionResult) []ProjectionPoint {
	var points []ProjectionPoint
	for _, v := range result.SortedVariables() {
		ts := result.Variables[v]
		for i, year := range ts.Years {
			points = append(points, ProjectionPoint{
				Source:   result.Source,
				Variable: string(v),
				Unit:     ts.Unit,
				Year:     year,
				Value:    ts.Values[i],
			})
		}
	}
	return points
}

// MockFetchRuns generates sample Run data for demonstration.
func MockFetchRuns() []Run {
	now := time.Now()
	started1 := now.Add(-2 * time.Hour)
	finished1 := started1.Add(95 * time.Second)
	durationMs1 := int32(finished1.Sub(started1).Milliseconds())

	started2 := now.Add(-30 * time.Minute)
	finished2 := started2.Add(110 * time.Second)
	durationMs2 := int32(finished2.Sub(started2).Milliseconds())
	errMsg2 := "engine invocation failed: exit status 1"

	started3 := now.Add(-5 * time.Minute)
	// Note: finished, duration, and error are nil to demonstrate nullable fields

	return []Run{
		{
			RunID:         1,
			RunUID:        "f47ac10b",
			Scenario:      "rcp45",
			Transform:     "additive",
			Magnitude:     2.0,
			WindowFrom:    2040,
			WindowTo:      2060,
			EngineCommand: "magicc",
			Outcome:       "completed",
			StartedAt:     started1,
			FinishedAt:    &finished1,
			DurationMs:    &durationMs1,
			MaxAbsDelta:   0.45,
		},
		{
			RunID:         2,
			RunUID:        "9b2c4d6e",
			Scenario:      "rcp85",
			Transform:     "multiplicative",
			Magnitude:     0.8,
			WindowFrom:    2030,
			WindowTo:      2100,
			EngineCommand: "magicc",
			Outcome:       "failed",
			ErrorMessage:  &errMsg2,
			StartedAt:     started2,
			FinishedAt:    &finished2,
			DurationMs:    &durationMs2,
		},
		{
			RunID:         3,
			RunUID:        "1a2b3c4d",
			Scenario:      "rcp26",
			Transform:     "ramp",
			Magnitude:     -1.5,
			WindowFrom:    2020,
			WindowTo:      2050,
			EngineCommand: "magicc",
			Outcome:       "running",
			StartedAt:     started3,
			FinishedAt:    nil, // Still running - nullable field
			DurationMs:    nil, // Not yet calculated - nullable field
		},
	}
}

// MockFetchRunDeltas generates sample RunDelta data for demonstration.
func MockFetchRunDeltas() []RunDelta {
	return []RunDelta{
		{
			RunID:        1,
			Variable:     "surface-temperature",
			Unit:         "degC",
			OverlapStart: 2000,
			OverlapEnd:   2100,
			FinalDelta:   0.42,
			PeakDelta:    0.45,
			PeakYear:     2095,
		},
		{
			RunID:        1,
			Variable:     "co2-concentration",
			Unit:         "ppm",
			OverlapStart: 2000,
			OverlapEnd:   2100,
			FinalDelta:   18.3,
			PeakDelta:    18.3,
			PeakYear:     2100,
		},
		{
			RunID:        2,
			Variable:     "surface-temperature",
			Unit:         "degC",
			OverlapStart: 2000,
			OverlapEnd:   2100,
			FinalDelta:   -0.31,
			PeakDelta:    -0.34,
			PeakYear:     2088,
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.ID,
			RunUID:        record.RunUID,
			Scenario:      record.Scenario,
			Transform:     record.Transform,
			Magnitude:     record.Magnitude,
			WindowFrom:    record.WindowFrom,
			WindowTo:      record.WindowTo,
			EngineCommand: record.EngineCommand,
			Outcome:       string(record.Outcome),
			ErrorMessage:  record.ErrorMessage,
			StartedAt:     record.StartedAt,
			FinishedAt:    record.FinishedAt,
			DurationMs:    record.DurationMs,
			MaxAbsDelta:   record.MaxAbsDelta,
		}
	}
	return result
}

// ConvertDeltaRecords converts schema.DeltaRecord to RunDelta for Parquet export.
func ConvertDeltaRecords(records []schema.DeltaRecord) []RunDelta {
	result := make([]RunDelta, len(records))
	for i, record := range records {
		result[i] = RunDelta{
			RunID:        record.RunID,
			Variable:     record.Variable,
			Unit:         record.Unit,
			OverlapStart: record.OverlapStart,
			OverlapEnd:   record.OverlapEnd,
			FinalDelta:   record.FinalDelta,
			PeakDelta:    record.PeakDelta,
			PeakYear:     record.PeakYear,
		}
	}
	return result
}
