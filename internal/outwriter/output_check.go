package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
)

// PrintCheckResult outputs the warming-limit check, dispatching based on the output format configured.
func PrintCheckResult(result *schema.CheckResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONCheck(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVCheck(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable text
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(result, cfg, fmtFloat, w)
		}, "Wrote check result")
	}
	return nil
}

// printJSONCheck handles opening the file and calling the JSON writer.
func printJSONCheck(result *schema.CheckResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON check result")
}

// printCSVCheck handles opening the file and calling the CSV writer.
func printCSVCheck(result *schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{
			"scenario",
			"transform",
			"magnitude",
			"limit",
			"by_year",
			"passed",
			"peak_warming",
			"peak_year",
			"crossing_year",
			"baseline_peak",
		}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			row := []string{
				string(result.Scenario),
				string(result.Perturbation.Kind),
				fmtFloat(result.Perturbation.Magnitude),
				fmtFloat(result.Limit),
				fmt.Sprintf("%.0f", result.ByYear),
				fmt.Sprintf("%t", result.Passed),
				fmtFloat(result.PeakWarming),
				fmt.Sprintf("%.0f", result.PeakYear),
				formatCrossingYear(result.CrossingYear),
				fmtFloat(result.BaselinePeak),
			}
			return cw.Write(row)
		})
	}, "Wrote CSV check result")
}

// writeCheckText writes the verdict plus the numbers that drove it.
func writeCheckText(result *schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	verdict := "PASS ✅"
	if !result.Passed {
		verdict = "FAIL ❌"
	}
	if cfg.UseColors {
		if result.Passed {
			verdict = color.New(color.FgGreen, color.Bold).Sprint(verdict)
		} else {
			verdict = color.New(color.FgRed, color.Bold).Sprint(verdict)
		}
	}

	if _, err := fmt.Fprintf(writer, "Warming check: %s\n", verdict); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Limit: %.1f°C by %.0f (%s, %s)\n",
		result.Limit, result.ByYear, schema.ScenarioDisplayName(result.Scenario), result.Perturbation); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Peak warming: %s°C in %.0f (%s, baseline %s°C)\n",
		fmtFloat(result.PeakWarming), result.PeakYear,
		contract.GetPlainLabel(result.PeakWarming), fmtFloat(result.BaselinePeak)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Limit crossed: modified %s, baseline %s\n",
		formatCrossingYear(result.CrossingYear), formatCrossingYear(result.BaselineCross)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Warming at %.0f: %s°C\n",
		result.ByYear, fmtFloat(result.WarmingAtByYear)); err != nil {
		return err
	}
	return nil
}
