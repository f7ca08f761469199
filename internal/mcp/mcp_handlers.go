package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/scendiff/scendiff/core"
	"github.com/scendiff/scendiff/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleListScenarios(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := core.GetScendiffScenarioCatalog()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleModifyAndCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid perturbation parameters: %v", err)), nil
	}

	report, _, err := core.GetScendiffRunResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleProjectBaseline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("scenario", ""); s != "" {
		if err := contract.RevalidateScenario(cfg, s); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid projection parameters: %v", err)), nil
		}
	}
	if v := request.GetString("variables", ""); v != "" {
		if err := contract.RevalidateVariables(cfg, v); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid projection parameters: %v", err)), nil
		}
	}

	result, _, err := core.GetScendiffProjectResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckWarmingLimit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid check parameters: %v", err)), nil
	}
	if limit := request.GetFloat("limit", 0); limit > 0 {
		cfg.WarmingLimit = limit
	}
	if byYear := request.GetFloat("by_year", 0); byYear > 0 {
		cfg.ByYear = byYear
	}

	result, _, err := core.GetScendiffCheckResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("warming check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// configFromRequest clones the base config and applies the shared
// scenario and perturbation arguments from a tool call.
func (h *toolHandler) configFromRequest(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("scenario", ""); s != "" {
		if err := contract.RevalidateScenario(cfg, s); err != nil {
			return nil, err
		}
	}

	transform := request.GetString("transform", string(cfg.Perturbation.Kind))
	magnitude := request.GetFloat("magnitude", cfg.Perturbation.Magnitude)
	from := request.GetFloat("from", cfg.Perturbation.From)
	to := request.GetFloat("to", cfg.Perturbation.To)
	if err := contract.RevalidatePerturbation(cfg, transform, magnitude, from, to); err != nil {
		return nil, err
	}

	if v := request.GetString("variables", ""); v != "" {
		if err := contract.RevalidateVariables(cfg, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
