package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/scendiff/scendiff/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtYear func(float64) string) {
	numFmt := "%.*f"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	fmtYear = func(y float64) string {
		return fmt.Sprintf("%.0f", y)
	}
	return fmtFloat, fmtYear
}

// signedDeltaFormatter returns a closure that renders deltas with a sign,
// a direction marker and optional color. Positive deltas are red since they
// mean additional warming or concentration.
func signedDeltaFormatter(precision int, useColors bool) func(float64) string {
	var red, green, yellow func(...any) string
	if useColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}

	return func(delta float64) string {
		switch {
		case delta > 0:
			// Explicitly add + sign
			return red(fmt.Sprintf("+%.*f ▲", precision, delta))
		case delta < 0:
			// Keeps the - sign from the float
			return green(fmt.Sprintf("%.*f ▼", precision, delta))
		default:
			// For 0.0 deltas, format simply without an indicator
			return yellow(fmt.Sprintf("%.*f", precision, 0.0))
		}
	}
}

// sampleIndexes returns the row indexes to keep when sampling every n-th
// year. The first and last index are always kept so the table spans the
// full horizon.
func sampleIndexes(length, every int) []int {
	if length == 0 {
		return nil
	}
	if every <= 1 {
		indexes := make([]int, length)
		for i := range indexes {
			indexes[i] = i
		}
		return indexes
	}
	var indexes []int
	for i := 0; i < length; i += every {
		indexes = append(indexes, i)
	}
	if indexes[len(indexes)-1] != length-1 {
		indexes = append(indexes, length-1)
	}
	return indexes
}

// formatCrossingYear renders a threshold crossing year, where 0 means the
// threshold is never reached.
func formatCrossingYear(year float64) string {
	if year == 0 {
		return "never"
	}
	return fmt.Sprintf("%.0f", year)
}
