// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/scendiff/scendiff/internal/contract"
)

// NewMCPServer initializes and configures the Scendiff MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Scendiff Scenario Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_scenarios ---
	s.AddTool(mcp.NewTool("list_scenarios",
		mcp.WithDescription("List the built-in RCP emission scenarios with their horizons and species."),
	), h.handleListScenarios)

	// --- 2. Tool: modify_and_compare ---
	s.AddTool(mcp.NewTool("modify_and_compare",
		mcp.WithDescription("Perturb fossil CO2 emissions of a scenario, project both pathways and return the projection deltas."),
		mcp.WithString("scenario", mcp.Description("RCP scenario to perturb. Defaults to the configured scenario."), mcp.Enum("rcp26", "rcp45", "rcp60", "rcp85")),
		mcp.WithString("transform", mcp.Description("Perturbation kind. Defaults to 'additive'."), mcp.Enum("additive", "multiplicative", "absolute", "ramp")),
		mcp.WithNumber("magnitude", mcp.Description("Perturbation magnitude in Gt C/yr (or a factor for multiplicative)."), mcp.Required()),
		mcp.WithNumber("from", mcp.Description("First year of the perturbation window. Omit with 'to' for the full horizon.")),
		mcp.WithNumber("to", mcp.Description("Last year of the perturbation window.")),
		mcp.WithString("variables", mcp.Description("Comma-separated output variables (surface-temperature, co2-concentration). Defaults to all.")),
	), h.handleModifyAndCompare)

	// --- 3. Tool: project_baseline ---
	s.AddTool(mcp.NewTool("project_baseline",
		mcp.WithDescription("Project an unmodified RCP scenario and return the annual series per output variable."),
		mcp.WithString("scenario", mcp.Description("RCP scenario to project."), mcp.Enum("rcp26", "rcp45", "rcp60", "rcp85")),
		mcp.WithString("variables", mcp.Description("Comma-separated output variables. Defaults to all.")),
	), h.handleProjectBaseline)

	// --- 4. Tool: check_warming_limit ---
	s.AddTool(mcp.NewTool("check_warming_limit",
		mcp.WithDescription("Run a perturbation and verify the projected warming stays under a temperature limit."),
		mcp.WithString("scenario", mcp.Description("RCP scenario to perturb."), mcp.Enum("rcp26", "rcp45", "rcp60", "rcp85")),
		mcp.WithString("transform", mcp.Description("Perturbation kind."), mcp.Enum("additive", "multiplicative", "absolute", "ramp")),
		mcp.WithNumber("magnitude", mcp.Description("Perturbation magnitude."), mcp.Required()),
		mcp.WithNumber("from", mcp.Description("First year of the perturbation window.")),
		mcp.WithNumber("to", mcp.Description("Last year of the perturbation window.")),
		mcp.WithNumber("limit", mcp.Description("Warming limit in degrees C. Defaults to the configured limit.")),
		mcp.WithNumber("by_year", mcp.Description("Only consider warming up to this year.")),
	), h.handleCheckWarmingLimit)

	return s
}

// StartMCPServer starts the Scendiff MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
