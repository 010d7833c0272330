package cmd

import (
	"github.com/huangsam/proneness/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Proneness MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents extract feature tables,
describe schemas and list stored runs. Logs go to stderr so that stdout
carries only the protocol.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
