package commands

import (
	"github.com/spf13/cobra"

	"github.com/playforge/playforge/internal/gameserver"
)

var mcpCmd = &cobra.Command{
	Use:    "mcp",
	Short:  "Run MCP servers (used by agent hosts)",
	Hidden: true,
}

var mcpGamegenCmd = &cobra.Command{
	Use:   "gamegen",
	Short: "Run the game generation MCP server",
	Long:  "Starts the playforge MCP server over stdio, exposing generate_game, validate_game, and library tools to agent hosts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return gameserver.Run(cmd.Context(), Version)
	},
}

func init() {
	mcpCmd.AddCommand(mcpGamegenCmd)
}
