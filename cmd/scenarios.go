package cmd

import (
	"github.com/scendiff/scendiff/core"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/spf13/cobra"
)

// scenariosCmd lists the built-in scenario catalog.
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in RCP emission scenarios.",
	Long: `Show the catalog of built-in RCP emission scenarios.

Displays each scenario's identifier, display name, projection horizon
and the emission species it carries. No engine is invoked - this is
purely informational.

Examples:
  # Show the catalog
  scendiff scenarios

  # Machine-readable catalog for scripting
  scendiff scenarios --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScendiffScenarios(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list scenarios", err)
		}
	},
}
