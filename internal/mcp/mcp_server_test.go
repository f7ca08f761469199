package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/scendiff/scendiff/internal/contract"
	mcp_internal "github.com/scendiff/scendiff/internal/mcp"
	"github.com/scendiff/scendiff/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTestConfig() *contract.Config {
	return &contract.Config{
		Scenario: schema.RCP45,
		Perturbation: schema.Perturbation{
			Kind:      schema.AdditiveTransform,
			Magnitude: 2.0,
		},
		Variables:    []schema.OutputVariable{schema.SurfaceTemperature},
		WarmingLimit: contract.DefaultWarmingLimit,
		Precision:    contract.DefaultPrecision,
		Output:       schema.JSONOut,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := baseTestConfig()

	// Create a dummy manager, though we shouldn't hit it because we test validation errors
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("modify_and_compare unknown scenario", func(t *testing.T) {
		tool := s.GetTool("modify_and_compare")
		require.NotNil(t, tool, "Tool modify_and_compare should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "modify_and_compare",
				Arguments: map[string]any{
					"scenario":  "rcp99",
					"magnitude": 2.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "unknown scenario")
	})

	t.Run("modify_and_compare inverted window", func(t *testing.T) {
		tool := s.GetTool("modify_and_compare")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "modify_and_compare",
				Arguments: map[string]any{
					"magnitude": 2.0,
					"from":      2060.0,
					"to":        2040.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid perturbation window")
	})

	t.Run("project_baseline invalid variables", func(t *testing.T) {
		tool := s.GetTool("project_baseline")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "project_baseline",
				Arguments: map[string]any{
					"variables": "sea-level-rise",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid output variable")
	})

	t.Run("check_warming_limit invalid transform", func(t *testing.T) {
		tool := s.GetTool("check_warming_limit")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "check_warming_limit",
				Arguments: map[string]any{
					"transform": "exponential",
					"magnitude": 2.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid transform")
	})
}

func TestMCPServerListScenarios(t *testing.T) {
	baseCfg := baseTestConfig()

	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("list_scenarios")
	require.NotNil(t, tool, "Tool list_scenarios should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "list_scenarios"},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var entries []schema.CatalogEntry
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &entries))
	require.Len(t, entries, 4)

	names := make([]schema.ScenarioName, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Scenario)
		assert.NotEmpty(t, e.DisplayName)
		assert.Less(t, e.StartYear, e.EndYear)
		assert.NotEmpty(t, e.Species)
	}
	assert.Equal(t, []schema.ScenarioName{schema.RCP26, schema.RCP45, schema.RCP60, schema.RCP85}, names)
}
