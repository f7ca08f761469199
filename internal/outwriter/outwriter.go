// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"time"

	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteComparison prints a comparison report using the configured output format.
func (ow *OutWriter) WriteComparison(report *schema.ComparisonReport, cfg *contract.Config, duration time.Duration) error {
	return PrintComparisonReport(report, cfg, duration)
}

// WriteProjection prints a projection result using the configured output format.
func (ow *OutWriter) WriteProjection(result *schema.ProjectionResult, cfg *contract.Config, duration time.Duration) error {
	return PrintProjectionResult(result, cfg, duration)
}

// WriteCatalog prints the scenario catalog using the configured output format.
func (ow *OutWriter) WriteCatalog(entries []schema.CatalogEntry, cfg *contract.Config) error {
	return PrintScenarioCatalog(entries, cfg)
}

// WriteCheck prints a warming-limit check result using the configured output format.
func (ow *OutWriter) WriteCheck(result *schema.CheckResult, cfg *contract.Config) error {
	return PrintCheckResult(result, cfg)
}

// LogRunHeader prints a concise, 2-line header for each pipeline step.
func LogRunHeader(cfg *contract.Config) {
	// Line 1: The scenario and perturbation being applied
	fmt.Printf("🌍 Scenario: %s (Transform: %s %+g)\n",
		schema.ScenarioDisplayName(cfg.Scenario), cfg.Perturbation.Kind, cfg.Perturbation.Magnitude)

	// Line 2: The perturbation window and the engine driving the projection
	if cfg.Perturbation.From == 0 && cfg.Perturbation.To == 0 {
		fmt.Printf("📅 Window: full horizon (Engine: %s)\n", cfg.EngineCommand)
	} else {
		fmt.Printf("📅 Window: %.0f → %.0f (Engine: %s)\n",
			cfg.Perturbation.From, cfg.Perturbation.To, cfg.EngineCommand)
	}
}

// GetMaxTableLabelWidth calculates the maximum width for variable labels in
// table output based on terminal width.
func GetMaxTableLabelWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns with borders and padding
	baseWidth := 50 // Unit + Final + Peak + Year + Mean with formatting

	// Calculate available space for the label
	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable label width
		return 12
	}
	if available > 40 {
		// Maximum label width to prevent overly wide tables
		return 40
	}
	return available
}
