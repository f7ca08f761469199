package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/scendiff/scendiff/schema"
)

// writeJSONReport marshals the schema.ComparisonReport to JSON and writes it.
func writeJSONReport(w io.Writer, report *schema.ComparisonReport) error {
	return writeJSON(w, report)
}

// writeCSVReport writes the report in long format: one row per variable per
// year, sampled by sampleEvery, with the run provenance repeated per row.
func writeCSVReport(w io.Writer, report *schema.ComparisonReport, sampleEvery int, fmtFloat, fmtYear func(float64) string) error {
	header := []string{
		"scenario",
		"transform",
		"magnitude",
		"variable",
		"unit",
		"year",
		"baseline",
		"modified",
		"delta",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, vd := range report.Results {
			for _, i := range sampleIndexes(len(vd.Years), sampleEvery) {
				row := []string{
					string(report.Scenario),
					string(report.Perturbation.Kind),
					fmtFloat(report.Perturbation.Magnitude),
					string(vd.Variable),
					vd.Unit,
					fmtYear(vd.Years[i]),
					fmtFloat(vd.Baseline[i]),
					fmtFloat(vd.Modified[i]),
					fmtFloat(vd.Delta[i]),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
