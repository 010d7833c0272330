package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/proneness/core"
	"github.com/huangsam/proneness/core/attrs"
	"github.com/huangsam/proneness/core/builder"
	"github.com/huangsam/proneness/internal/contract"
	"github.com/huangsam/proneness/internal/metrics"
	"github.com/huangsam/proneness/internal/outwriter"
	"github.com/huangsam/proneness/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	client  contract.GitClient
}

// extractResponse is the payload of extract_features.
type extractResponse struct {
	RunID     string          `json:"run_id,omitempty"`
	Source    string          `json:"source"`
	Stats     builder.Stats   `json:"stats"`
	TotalRows int             `json:"total_rows"`
	Table     json.RawMessage `json:"table"`
}

func (h *toolHandler) handleExtractFeatures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	input := &contract.ConfigRawInput{
		RepoPathStr:   request.GetString("repo_path", ""),
		ChangesFile:   request.GetString("changes_file", ""),
		SnapshotsFile: request.GetString("snapshots_file", ""),
		CommitsFile:   request.GetString("commits_file", ""),
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if err := contract.RevalidateExtraction(cfg,
		request.GetString("builder", ""),
		request.GetString("measures", ""),
		request.GetString("class", ""),
	); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid extraction parameters: %v", err)), nil
	}
	if err := contract.ResolveSources(ctx, cfg, h.client, input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid sources: %v", err)), nil
	}

	result, err := core.RunExtraction(ctx, cfg, h.client, h.mgr, metrics.NewRecorder())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	head := headRows(result.Table, cfg.ResultLimit)
	var buf bytes.Buffer
	if err := outwriter.NewOutWriter().EncodeTable(&buf, schema.JSONOut, head); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(extractResponse{
		RunID:     result.RunID,
		Source:    result.Source,
		Stats:     result.Stats,
		TotalRows: len(result.Table.Rows),
		Table:     json.RawMessage(bytes.TrimSpace(buf.Bytes())),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDescribeSchema(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateExtraction(cfg,
		request.GetString("builder", ""),
		request.GetString("measures", ""),
		request.GetString("class", ""),
	); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid extraction parameters: %v", err)), nil
	}

	table, err := core.ConfiguredSchema(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schema failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.DescribeSchema(table, cfg), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRuns(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}

	runs, err := core.ListRuns(h.mgr, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing runs failed: %v", err)), nil
	}
	if runs == nil {
		runs = []schema.RunRecord{}
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// headRows returns the first limit rows of t, sharing its schema.
func headRows(t *attrs.Table, limit int) *attrs.Table {
	if limit <= 0 || limit >= len(t.Rows) {
		return t
	}
	return &attrs.Table{Schema: t.Schema, Rows: t.Rows[:limit], ClassIndex: t.ClassIndex}
}
