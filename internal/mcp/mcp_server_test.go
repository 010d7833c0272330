package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/iocache"
	mcp_internal "github.com/huangsam/proneness/internal/mcp"
	"github.com/huangsam/proneness/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Builder:     schema.StandardBuilder,
		Processor:   schema.StandardProcessor,
		Measures:    []string{"linear"},
		Workers:     2,
		ResultLimit: 25,
		Precision:   3,
		Output:      schema.TextOut,
	}
}

func callTool(t *testing.T, cfg *contract.Config, mgr contract.CacheManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	t.Run("extract_features without history", func(t *testing.T) {
		res := callTool(t, baseConfig(), nil, "extract_features", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "--changes-file or --snapshots-file is required")
	})

	t.Run("extract_features unknown measure", func(t *testing.T) {
		res := callTool(t, baseConfig(), nil, "extract_features", map[string]any{"measures": "cubic"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid extraction parameters")
	})

	t.Run("describe_schema unknown class", func(t *testing.T) {
		res := callTool(t, baseConfig(), nil, "describe_schema", map[string]any{"class": "weighted"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "not a configured measure")
	})

	t.Run("list_runs without dataset store", func(t *testing.T) {
		res := callTool(t, baseConfig(), nil, "list_runs", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "dataset storage is disabled")
	})
}

func TestMCPServerHandlers_ExtractFeatures(t *testing.T) {
	testdata, err := filepath.Abs(filepath.Join("..", "..", "core", "testdata"))
	require.NoError(t, err)

	res := callTool(t, baseConfig(), nil, "extract_features", map[string]any{
		"changes_file": filepath.Join(testdata, "changes.csv"),
		"commits_file": filepath.Join(testdata, "commits.csv"),
		"measures":     "linear,weighted",
		"class":        "weighted",
		"limit":        2.0,
	})
	require.False(t, res.IsError, resultText(res))

	var payload struct {
		TotalRows int `json:"total_rows"`
		Stats     struct {
			Histories int `json:"histories"`
		} `json:"stats"`
		Table struct {
			Class string  `json:"class"`
			Rows  [][]any `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &payload))
	assert.Equal(t, 2, payload.Stats.Histories)
	assert.Equal(t, "weightBugProneness", payload.Table.Class)
	assert.LessOrEqual(t, len(payload.Table.Rows), 2)
	assert.GreaterOrEqual(t, payload.TotalRows, len(payload.Table.Rows))
}

func TestMCPServerHandlers_DescribeSchema(t *testing.T) {
	res := callTool(t, baseConfig(), nil, "describe_schema", map[string]any{"measures": "geometric:0.7"})
	require.False(t, res.IsError, resultText(res))

	var desc struct {
		ClassColumn string `json:"class_column"`
		Columns     []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &desc))
	assert.Equal(t, "geomBugProneness0.7", desc.ClassColumn)
	require.NotEmpty(t, desc.Columns)
	last := desc.Columns[len(desc.Columns)-1]
	assert.Equal(t, "geomBugProneness0.7", last.Name)
	assert.Equal(t, "class", last.Role)
}

func TestMCPServerHandlers_ListRuns(t *testing.T) {
	store := &iocache.MockDataSetStore{}
	store.On("ListRuns", 5).Return([]schema.RunRecord{{RunID: "run-1", NumRows: 3}}, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDataSetStore").Return(store)

	res := callTool(t, baseConfig(), mgr, "list_runs", map[string]any{"limit": 5.0})
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "run-1")
	store.AssertExpectations(t)
}
