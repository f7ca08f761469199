package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/scendiff/scendiff/schema"
)

// writeJSONProjection marshals the schema.ProjectionResult to JSON and writes it.
func writeJSONProjection(w io.Writer, result *schema.ProjectionResult) error {
	return writeJSON(w, result)
}

// writeCSVProjection writes the projection in long format: one row per
// variable per year, sampled by sampleEvery.
func writeCSVProjection(w io.Writer, result *schema.ProjectionResult, sampleEvery int, fmtFloat, fmtYear func(float64) string) error {
	header := []string{
		"source",
		"variable",
		"unit",
		"year",
		"value",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range result.SortedVariables() {
			ts := result.Variables[v]
			for _, i := range sampleIndexes(len(ts.Years), sampleEvery) {
				row := []string{
					result.Source,
					string(v),
					ts.Unit,
					fmtYear(ts.Years[i]),
					fmtFloat(ts.Values[i]),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
