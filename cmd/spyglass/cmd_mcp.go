package main

import (
	"github.com/spf13/cobra"

	"spyglass/internal/app"
)

// newMCPCmd creates the mcp subcommand
func newMCPCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve list_connections, set_active_connection, list_tables and chart_data over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ServeMCP(g.logger(), g.configPath)
		},
	}
}
