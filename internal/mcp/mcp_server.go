// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/proneness/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Proneness MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Proneness Feature Extraction Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		client:  contract.NewLocalGitClient(),
	}

	// --- 1. Tool: extract_features ---
	s.AddTool(mcp.NewTool("extract_features",
		mcp.WithDescription("Extract a bug-proneness feature table from method change histories and a commit log."),
		mcp.WithString("changes_file", mcp.Description("CSV change file with method,commit,change_type rows.")),
		mcp.WithString("snapshots_file", mcp.Description("JSON lines snapshot file, distilled into changes (alternative to changes_file).")),
		mcp.WithString("commits_file", mcp.Description("CSV commit file with id,author,time,message rows. Defaults to the git log of repo_path.")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithString("builder", mcp.Description("Chunk builder. Defaults to 'standard'."), mcp.Enum("standard", "group", "single")),
		mcp.WithString("measures", mcp.Description("Comma-separated measures such as 'linear,geometric:0.7,weighted'.")),
		mcp.WithString("class", mcp.Description("Label column or measure. Defaults to the first measure.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	), h.handleExtractFeatures)

	// --- 2. Tool: describe_schema ---
	s.AddTool(mcp.NewTool("describe_schema",
		mcp.WithDescription("Describe the columns an extraction produces, without reading any history."),
		mcp.WithString("builder", mcp.Description("Chunk builder."), mcp.Enum("standard", "group", "single")),
		mcp.WithString("measures", mcp.Description("Comma-separated measures.")),
		mcp.WithString("class", mcp.Description("Label column or measure.")),
	), h.handleDescribeSchema)

	// --- 3. Tool: list_runs ---
	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List stored extraction runs, newest first. Requires a dataset backend."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of runs returned.")),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the Proneness MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
