// Package main provides a performance benchmarking tool for the Scendiff CLI.
// It measures execution times across scenarios and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - scendiff binary installed and available in PATH
// - A climate engine binary (real or the integration stub)
//
// Usage: go run benchmark/main.go [engine-command]
//
//	engine-command: Engine executable to invoke for projections
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Scenario    string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	EngineCommand string
	Timeout       time.Duration
	NoCacheRuns   int
	CacheRuns     int
	Scenarios     []string
	Perturbations map[string]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [engine-command]\n", os.Args[0])
		os.Exit(1)
	}
	engineCommand := os.Args[1]

	config := BenchmarkConfig{
		EngineCommand: engineCommand,
		Timeout:       5 * time.Minute,
		NoCacheRuns:   3,
		CacheRuns:     4,
		Scenarios:     []string{"rcp26", "rcp45", "rcp60", "rcp85"},
		Perturbations: map[string]string{
			"rcp26": "--magnitude 1 --from 2030 --to 2100",
			"rcp45": "--magnitude 2 --from 2040 --to 2060",
			"rcp60": "--transform multiplicative --magnitude 0.8",
			"rcp85": "--transform ramp --magnitude 5 --from 2050 --to 2100",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using scendiff cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("scendiff", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the scendiff binary and engine exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if scendiff is available
	if _, err := exec.LookPath("scendiff"); err != nil {
		return fmt.Errorf("scendiff binary not found in PATH")
	}

	// Check if the engine command is runnable
	if _, err := exec.LookPath(config.EngineCommand); err != nil {
		return fmt.Errorf("engine command %s not found", config.EngineCommand)
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured scenarios
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Scenarios), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, scenario := range config.Scenarios {
		fmt.Printf("Benchmarking %s\n", scenario)

		// Baseline projection
		result := runBenchmarkSuite(config, scenario, "project", "baseline projection", "")
		results = append(results, result)

		// Perturbation comparison
		perturbation, hasPerturbation := config.Perturbations[scenario]
		if hasPerturbation {
			desc := fmt.Sprintf("comparison (%s)", perturbation)
			result = runBenchmarkSuite(config, scenario, "run", desc, perturbation)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, scenario, command, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, scenario)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, scenario, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Scenario:    scenario,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a scendiff command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, scenario, command, extraArgs, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := []string{command, scenario,
		"--engine-command", config.EngineCommand,
		"--cache-backend", cacheBackend,
		"--runs-backend", "none"}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("scendiff", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	var completionPhrase string
	if command == "project" {
		completionPhrase = "Projected"
	} else {
		completionPhrase = "Step completed in"
	}

	return strings.Contains(outputStr, completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/scendiff_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"scenario", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Scenario, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "project", "Baseline Projections:")
	printCommandSummary(results, "run", "Perturbation Comparisons:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Scenario, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
