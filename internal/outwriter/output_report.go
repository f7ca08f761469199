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

// PrintComparisonReport outputs a comparison report, dispatching based on the output format configured.
func PrintComparisonReport(report *schema.ComparisonReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, fmtYear := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONReport(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVReport(report, cfg, fmtFloat, fmtYear); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetReport(report, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONReport handles opening the file and calling the JSON writer.
func printJSONReport(report *schema.ComparisonReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONReport(w, report)
	}, "Wrote JSON report")
}

// printCSVReport handles opening the file and calling the CSV writer.
func printCSVReport(report *schema.ComparisonReport, cfg *contract.Config, fmtFloat, fmtYear func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVReport(w, report, cfg.SampleEvery, fmtFloat, fmtYear)
	}, "Wrote CSV report")
}

// printParquetReport writes the per-variable delta rows as a Parquet file.
// Parquet is a binary format, so a file path is mandatory.
func printParquetReport(report *schema.ComparisonReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	rows := make([]parquet.RunDelta, 0, len(report.Results))
	for _, vd := range report.Results {
		rows = append(rows, parquet.RunDelta{
			Variable:     string(vd.Variable),
			Unit:         vd.Unit,
			OverlapStart: report.Summary.OverlapStart,
			OverlapEnd:   report.Summary.OverlapEnd,
			FinalDelta:   vd.Summary.FinalDelta,
			PeakDelta:    vd.Summary.PeakDelta,
			PeakYear:     vd.Summary.PeakYear,
		})
	}
	if err := parquet.WriteDeltasParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet report to %s\n", cfg.OutputFile)
	return nil
}

// writeReportTable generates and writes the human-readable summary table.
func writeReportTable(report *schema.ComparisonReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Variable", "Unit", "Final Δ", "Peak Δ", "Peak Year", "Mean Δ"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	fmtDelta := signedDeltaFormatter(cfg.Precision, cfg.UseColors)
	var data [][]string
	for _, vd := range report.Results {
		row := []string{
			contract.TruncateLabel(string(vd.Variable), GetMaxTableLabelWidth(cfg)),
			vd.Unit,
			fmtDelta(vd.Summary.FinalDelta),
			fmtDelta(vd.Summary.PeakDelta),
			fmt.Sprintf("%.0f", vd.Summary.PeakYear),
			fmtDelta(vd.Summary.MeanDelta),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 5. Summary block
	if _, err := fmt.Fprintf(writer, "Overlap: %.0f → %.0f, largest delta: %s %s (%s)\n",
		report.Summary.OverlapStart, report.Summary.OverlapEnd,
		fmtFloat(report.Summary.MaxAbsDelta),
		unitForVariable(report, report.Summary.MaxAbsDeltaVariable),
		report.Summary.MaxAbsDeltaVariable); err != nil {
		return err
	}
	for _, c := range report.Summary.Crossings {
		if _, err := fmt.Fprintf(writer, "%.1f°C crossing: baseline %s, modified %s\n",
			c.Limit, formatCrossingYear(c.BaselineYear), formatCrossingYear(c.ModifiedYear)); err != nil {
			return err
		}
	}
	if e := report.Emissions; e != nil {
		if _, err := fmt.Fprintf(writer, "Emissions delta (%s): cumulative %s Gt C, peak %s %s in %.0f\n",
			e.Species, fmtFloat(e.CumulativeDelta), fmtFloat(e.PeakDelta), e.Unit, e.PeakYear); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Step completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// unitForVariable looks up the unit of a variable inside a report.
func unitForVariable(report *schema.ComparisonReport, v schema.OutputVariable) string {
	for _, vd := range report.Results {
		if vd.Variable == v {
			return vd.Unit
		}
	}
	return ""
}
