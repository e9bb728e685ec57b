// Package gameserver exposes game generation over MCP, so agent hosts can
// drive the same pipeline the interactive session uses. The API key comes
// from XAI_API_KEY; the server never mounts views itself.
package gameserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Run starts the playforge MCP server over stdio.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string) error {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "playforge",
			Version: version,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_game",
		Description: "Generate terminal game source code from a natural-language description. Sends the prompt to the xAI API and returns the generated Go source. Requires XAI_API_KEY in the environment.",
	}, handleGenerateGame)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_game",
		Description: "Validate game source without running it interactively. Checks the import allowlist, evaluates the code in a sandbox, and confirms the NewGameView entry point. Returns the first rendered frame on success.",
	}, handleValidateGame)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_game",
		Description: "Save game source to the library under a name. Saving under an existing name replaces that game.",
	}, handleSaveGame)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_games",
		Description: "List saved games in the library with their names, slugs, and timestamps.",
	}, handleListGames)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_game",
		Description: "Get the source code of a saved game by name or slug.",
	}, handleGetGame)

	return server.Run(ctx, &mcp.StdioTransport{})
}
