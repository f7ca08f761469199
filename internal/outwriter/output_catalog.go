package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
)

// PrintScenarioCatalog outputs the scenario catalog, dispatching based on the output format configured.
func PrintScenarioCatalog(entries []schema.CatalogEntry, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONCatalog(entries, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVCatalog(entries, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(entries, w)
		}, "Wrote table")
	}
	return nil
}

// printJSONCatalog handles opening the file and calling the JSON writer.
func printJSONCatalog(entries []schema.CatalogEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, entries)
	}, "Wrote JSON catalog")
}

// printCSVCatalog handles opening the file and calling the CSV writer.
func printCSVCatalog(entries []schema.CatalogEntry, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"scenario", "display_name", "start_year", "end_year", "species", "description"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, e := range entries {
				row := []string{
					string(e.Scenario),
					e.DisplayName,
					fmt.Sprintf("%.0f", e.StartYear),
					fmt.Sprintf("%.0f", e.EndYear),
					joinSpecies(e.Species),
					e.Description,
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV catalog")
}

// writeCatalogTable generates and writes the human-readable catalog table.
func writeCatalogTable(entries []schema.CatalogEntry, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Scenario", "Name", "Horizon", "Species", "Description"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, e := range entries {
		row := []string{
			string(e.Scenario),
			e.DisplayName,
			fmt.Sprintf("%.0f-%.0f", e.StartYear, e.EndYear),
			joinSpecies(e.Species),
			e.Description,
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d built-in scenarios\n", len(entries)); err != nil {
		return err
	}
	return nil
}

// joinSpecies renders a species list as a pipe-separated string.
func joinSpecies(species []schema.Species) string {
	parts := make([]string, len(species))
	for i, sp := range species {
		parts[i] = string(sp)
	}
	return strings.Join(parts, "|")
}
