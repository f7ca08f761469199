package cmd

import (
	"github.com/scendiff/scendiff/core"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/spf13/cobra"
)

// projectCmd projects an unmodified baseline pathway.
var projectCmd = &cobra.Command{
	Use:   "project [scenario]",
	Short: "Project an unmodified scenario through the climate engine.",
	Long: `Run a single RCP scenario through the climate engine without any
perturbation and print the projected annual series per output variable.

Projections are cached per scenario and engine command, so repeated
projections of the same pathway return instantly.

Examples:
  # Project RCP4.5 surface temperature and CO2 concentration
  scendiff project rcp45

  # Project only surface temperature, sampled every 10 years
  scendiff project rcp85 --variables surface-temperature --sample-every 10

  # Export the full series as JSON
  scendiff project rcp26 --output json --output-file rcp26.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScendiffProject(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run projection", err)
		}
	},
}
