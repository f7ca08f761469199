// Package cmd defines the command-line interface for scendiff.
package cmd

import (
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("scenario", "s", string(schema.RCP45), "Scenario to act on: rcp26, rcp45, rcp60 or rcp85")
	rootCmd.PersistentFlags().StringP("transform", "t", string(schema.AdditiveTransform), "Perturbation kind: additive, multiplicative, absolute or ramp")
	rootCmd.PersistentFlags().Float64P("magnitude", "m", 0, "Perturbation magnitude in Gt C/yr (or a factor for multiplicative)")
	rootCmd.PersistentFlags().Float64("from", 0, "First year of the perturbation window (0 = full horizon)")
	rootCmd.PersistentFlags().Float64("to", 0, "Last year of the perturbation window (0 = full horizon)")
	rootCmd.PersistentFlags().String("variables", "", "Comma-separated output variables (empty = all)")
	rootCmd.PersistentFlags().String("engine-command", contract.DefaultEngineCommand, "Climate engine executable to invoke")
	rootCmd.PersistentFlags().String("engine-timeout", "2m", "Timeout for a single engine invocation")
	rootCmd.PersistentFlags().Bool("sequential", false, "Run baseline and modified projections one after the other")
	rootCmd.PersistentFlags().Float64("warming-limit", contract.DefaultWarmingLimit, "Warming limit in degrees C for the check command")
	rootCmd.PersistentFlags().Float64("by-year", 0, "Only consider warming up to this year (0 = whole horizon)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("sample-every", contract.DefaultSampleEvery, "Print every Nth year in tables and CSV output")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Projection cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", string(schema.SQLiteBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored deltas in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
