package cmd

import (
	"github.com/scendiff/scendiff/core"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [scenario]",
	Short: "Verify projected warming stays under a limit (fails build on violations)",
	Long: `Run a perturbation and enforce a warming limit on the projected outcome.

Designed specifically for CI/CD integration - fails with non-zero exit
code when the modified pathway's peak surface temperature exceeds the
configured limit. Use --by-year to only consider warming up to a given
year.

Default limit: 2.0 degrees C over the whole horizon.

Use cases:
- Gate policy experiments on a temperature target
- Validate emission budgets before publishing them
- Catch regressions when engine versions change

Examples:
  # Does +2 Gt C/yr on RCP4.5 stay under 2 degrees?
  scendiff check rcp45 --magnitude 2 --from 2040 --to 2060

  # Enforce 1.5 degrees by 2100
  scendiff check rcp26 -m 1 --warming-limit 1.5 --by-year 2100

  # Machine-readable verdict for pipelines
  scendiff check rcp45 -m 2 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// A failed check exits with status 1 inside ExecuteScendiffCheck
		if err := core.ExecuteScendiffCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Warming check failed", err)
		}
	},
}
