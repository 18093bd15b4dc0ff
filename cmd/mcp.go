package cmd

import (
	"github.com/huangsam/aurora/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Aurora MCP server",
	Long: `Launch an MCP server that allows AI agents to retrieve emission-line brightnesses via standard tools.

Flags and the config file set the defaults of every tool call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, newDependencies(cfg))
	},
}
