package cmd

import (
	"github.com/scendiff/scendiff/core"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd performs one perturb-project-compare step.
var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Perturb a scenario, project both pathways and show the deltas.",
	Long: `Apply a perturbation to the fossil CO2 emissions of an RCP scenario,
project both the baseline and the modified pathway through the climate
engine, and report how each output variable moves.

The baseline and modified projections run in parallel by default; use
--sequential to run them one after the other on constrained machines.

Each run is recorded in the run history store (when enabled), including
per-variable deltas, so you can track experiments over time.

Examples:
  # Add 2 Gt C/yr to RCP4.5 fossil emissions over 2040-2060
  scendiff run rcp45 --magnitude 2 --from 2040 --to 2060

  # Scale RCP8.5 emissions down to 80% across the whole horizon
  scendiff run rcp85 --transform multiplicative --magnitude 0.8

  # Ramp an extra 5 Gt C/yr in linearly over the window
  scendiff run rcp60 --transform ramp --magnitude 5 --from 2030 --to 2100

  # Only look at CO2 concentration, exported as CSV
  scendiff run rcp45 -m 2 --variables co2-concentration --output csv --output-file deltas.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScendiffRun(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
