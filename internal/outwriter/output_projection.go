package outwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/internal/parquet"
	"github.com/scendiff/scendiff/schema"
)

// PrintProjectionResult outputs a projection, dispatching based on the output format configured.
func PrintProjectionResult(result *schema.ProjectionResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtYear := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONProjection(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVProjection(result, cfg, fmtFloat, fmtYear); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetProjection(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProjectionTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONProjection handles opening the file and calling the JSON writer.
func printJSONProjection(result *schema.ProjectionResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONProjection(w, result)
	}, "Wrote JSON projection")
}

// printCSVProjection handles opening the file and calling the CSV writer.
func printCSVProjection(result *schema.ProjectionResult, cfg *contract.Config, fmtFloat, fmtYear func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVProjection(w, result, cfg.SampleEvery, fmtFloat, fmtYear)
	}, "Wrote CSV projection")
}

// printParquetProjection writes the projected points as a Parquet file.
func printParquetProjection(result *schema.ProjectionResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	if err := parquet.WriteProjectionParquet(parquet.ConvertProjectionResult(result), cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet projection to %s\n", cfg.OutputFile)
	return nil
}

// writeProjectionTable writes the projected series as one table per variable,
// sampled by the configured year stride.
func writeProjectionTable(result *schema.ProjectionResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	for _, v := range result.SortedVariables() {
		ts := result.Variables[v]
		if _, err := fmt.Fprintf(writer, "%s (%s)\n", v, ts.Unit); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Year", "Value"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, i := range sampleIndexes(len(ts.Years), cfg.SampleEvery) {
			data = append(data, []string{
				fmt.Sprintf("%.0f", ts.Years[i]),
				fmtFloat(ts.Values[i]),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	engine := result.Engine.Command
	if result.Engine.FromCache {
		engine += " (cached)"
	}
	if _, err := fmt.Fprintf(writer, "Projected %s over %.0f → %.0f via %s in %v\n",
		result.Source, result.StartYear, result.EndYear, engine, duration); err != nil {
		return err
	}
	return nil
}
