package iocache

import (
	"errors"
	"fmt"

	"github.com/scendiff/scendiff/internal/parquet"
)

// ExecuteRunsExport performs the actual export of run history to Parquet files.
func ExecuteRunsExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total delta records: %d\n", status.TotalDeltas)

	// Retrieve all runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve all per-variable deltas
	deltas, err := store.GetAllDeltas()
	if err != nil {
		return fmt.Errorf("failed to retrieve deltas: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetDeltas := parquet.ConvertDeltaRecords(deltas)

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write deltas to Parquet
	deltasFile := outputFile + ".run_deltas.parquet"
	if err := parquet.WriteDeltasParquet(parquetDeltas, deltasFile); err != nil {
		return fmt.Errorf("failed to write deltas: %w", err)
	}
	fmt.Printf("Exported %d delta records to: %s\n", len(parquetDeltas), deltasFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
