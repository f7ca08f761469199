// Package core has core logic for perturbation, projection and comparison.
package core

import (
	"context"
	"os"
	"time"

	"github.com/scendiff/scendiff/core/pathway"
	"github.com/scendiff/scendiff/internal/contract"
	"github.com/scendiff/scendiff/internal/outwriter"
	"github.com/scendiff/scendiff/schema"
)

// ExecutorFunc defines the function signature for executing different pipeline modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetScendiffRunResults performs one modify-and-compare step and returns the
// comparison report along with the elapsed time. Callers that own stdout
// (like the MCP server) use this directly with a suppressed header.
func GetScendiffRunResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.ComparisonReport, time.Duration, error) {
	start := time.Now()
	session := NewSession(cfg, &contract.LocalEngineClient{}, mgr)
	if !ShouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		outwriter.LogRunHeader(cfg)
	}
	report, err := session.ModifyAndCompare(ctx)
	if err != nil {
		return nil, 0, err
	}
	return report, time.Since(start), nil
}

// ExecuteScendiffRun performs one modify-and-compare step and prints the
// resulting report. It serves as the main entry point for the 'run' mode.
func ExecuteScendiffRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, duration, err := GetScendiffRunResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintComparisonReport(report, cfg, duration)
}

// GetScendiffProjectResults projects the unmodified baseline pathway and
// returns the projected series along with the elapsed time.
func GetScendiffProjectResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.ProjectionResult, time.Duration, error) {
	start := time.Now()
	session := NewSession(cfg, &contract.LocalEngineClient{}, mgr)
	if !ShouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		outwriter.LogRunHeader(cfg)
	}
	result, err := session.ProjectBaseline(ctx)
	if err != nil {
		return nil, 0, err
	}
	return result, time.Since(start), nil
}

// ExecuteScendiffProject projects the unmodified baseline pathway and prints
// the projected series. It serves as the main entry point for the 'project' mode.
func ExecuteScendiffProject(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetScendiffProjectResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintProjectionResult(result, cfg, duration)
}

// GetScendiffScenarioCatalog builds the catalog of built-in scenarios. This
// is a static lookup that does not require an engine.
func GetScendiffScenarioCatalog() ([]schema.CatalogEntry, error) {
	store := pathway.NewStore()
	names := store.Scenarios()
	entries := make([]schema.CatalogEntry, 0, len(names))
	for _, name := range names {
		p, err := store.Load(name)
		if err != nil {
			return nil, err
		}
		startYear, endYear := p.Horizon()
		entries = append(entries, schema.CatalogEntry{
			Scenario:    name,
			DisplayName: schema.ScenarioDisplayName(name),
			Description: store.Description(name),
			StartYear:   startYear,
			EndYear:     endYear,
			Species:     p.SortedSpecies(),
		})
	}
	return entries, nil
}

// ExecuteScendiffScenarios lists the built-in catalog. It serves as the main
// entry point for the 'scenarios' mode.
func ExecuteScendiffScenarios(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	entries, err := GetScendiffScenarioCatalog()
	if err != nil {
		return err
	}
	return outwriter.PrintScenarioCatalog(entries, cfg)
}

// GetScendiffCheckResults performs one modify-and-compare step and gates the
// result against the configured warming limit.
func GetScendiffCheckResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.CheckResult, time.Duration, error) {
	start := time.Now()
	checkCfg := withTemperatureVariable(cfg)
	session := NewSession(checkCfg, &contract.LocalEngineClient{}, mgr)
	if !ShouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		outwriter.LogRunHeader(checkCfg)
	}
	report, err := session.ModifyAndCompare(ctx)
	if err != nil {
		return nil, 0, err
	}
	result, err := EvaluateWarmingCheck(report, checkCfg.WarmingLimit, checkCfg.ByYear)
	if err != nil {
		return nil, 0, err
	}
	return result, time.Since(start), nil
}

// ExecuteScendiffCheck performs one modify-and-compare step and gates the
// result against the configured warming limit. A failed check exits with
// status 1 after printing, so CI pipelines can consume it directly.
func ExecuteScendiffCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, _, err := GetScendiffCheckResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.PrintCheckResult(result, cfg); err != nil {
		return err
	}
	if !result.Passed {
		os.Exit(1)
	}
	return nil
}

// withTemperatureVariable returns a config guaranteed to project surface
// temperature, which the warming check needs regardless of what variables
// the user asked for.
func withTemperatureVariable(cfg *contract.Config) *contract.Config {
	for _, v := range cfg.Variables {
		if v == schema.SurfaceTemperature {
			return cfg
		}
	}
	clone := *cfg
	clone.Variables = append(append([]schema.OutputVariable(nil), cfg.Variables...), schema.SurfaceTemperature)
	return &clone
}
