package gameserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/execute"
	"github.com/playforge/playforge/internal/grok"
	"github.com/playforge/playforge/internal/prompt"
	"github.com/playforge/playforge/internal/storage"
)

type textOutput struct {
	Message string `json:"message"`
}

func newClientFromEnv(model string) (*grok.Client, error) {
	key := os.Getenv("XAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("XAI_API_KEY is not set")
	}
	return grok.NewClient(key, grok.Options{Model: model}), nil
}

func openGameStore() (*storage.GameStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return storage.NewGameStore(cfg.GamesDir), nil
}

// --- generate_game ---

type generateGameInput struct {
	Description string `json:"description" jsonschema:"Natural-language description of the game to generate (e.g. 'a breakout clone with three lives')"`
	Model       string `json:"model" jsonschema:"Optional xAI model override (default grok-3)"`
	Prefix      string `json:"prefix" jsonschema:"Optional prompt prefix override; the built-in prefix carries the game code contract"`
	Suffix      string `json:"suffix" jsonschema:"Optional prompt suffix override"`
}

func handleGenerateGame(ctx context.Context, req *mcp.CallToolRequest, input generateGameInput) (*mcp.CallToolResult, textOutput, error) {
	prefix := input.Prefix
	if prefix == "" {
		prefix = prompt.DefaultPrefix
	}
	suffix := input.Suffix
	if suffix == "" {
		suffix = prompt.DefaultSuffix
	}
	composed, err := prompt.Compose(prefix, input.Description, suffix)
	if err != nil {
		return nil, textOutput{}, err
	}
	c, err := newClientFromEnv(input.Model)
	if err != nil {
		return nil, textOutput{}, err
	}
	res, err := c.Complete(ctx, composed)
	if err != nil {
		return nil, textOutput{}, err
	}
	return nil, textOutput{Message: res.Text}, nil
}

// --- validate_game ---

type validateGameInput struct {
	Source string `json:"source" jsonschema:"Go game source to validate"`
}

func handleValidateGame(ctx context.Context, req *mcp.CallToolRequest, input validateGameInput) (*mcp.CallToolResult, textOutput, error) {
	view, err := execute.New().Run(ctx, input.Source)
	if err != nil {
		return nil, textOutput{}, err
	}

	// Render one frame headlessly as a smoke check. The view's code is
	// interpreted, so the calls go through the executor's panic guard
	// rather than straight into the handler goroutine.
	frame, err := execute.FirstFrame(view, 60, 20)
	if err != nil {
		return nil, textOutput{}, err
	}
	msg := "game source is valid"
	if strings.TrimSpace(frame) != "" {
		msg += "\n\nfirst frame:\n" + frame
	}
	return nil, textOutput{Message: msg}, nil
}

// --- save_game ---

type saveGameInput struct {
	Name   string `json:"name" jsonschema:"Name to save the game under"`
	Source string `json:"source" jsonschema:"Go game source to save"`
	Prompt string `json:"prompt" jsonschema:"Optional originating prompt, stored as metadata"`
}

func handleSaveGame(ctx context.Context, req *mcp.CallToolRequest, input saveGameInput) (*mcp.CallToolResult, textOutput, error) {
	if strings.TrimSpace(input.Source) == "" {
		return nil, textOutput{}, fmt.Errorf("source is required")
	}
	store, err := openGameStore()
	if err != nil {
		return nil, textOutput{}, err
	}
	info, err := store.Save(storage.GameInfo{Name: input.Name, Prompt: input.Prompt}, input.Source)
	if err != nil {
		return nil, textOutput{}, err
	}
	return nil, textOutput{Message: fmt.Sprintf("saved %q as %s", info.Name, info.Slug)}, nil
}

// --- list_games ---

type listGamesInput struct{}

func handleListGames(ctx context.Context, req *mcp.CallToolRequest, input listGamesInput) (*mcp.CallToolResult, textOutput, error) {
	store, err := openGameStore()
	if err != nil {
		return nil, textOutput{}, err
	}
	games, err := store.List()
	if err != nil {
		return nil, textOutput{}, err
	}
	if len(games) == 0 {
		return nil, textOutput{Message: "no saved games"}, nil
	}
	var b strings.Builder
	for _, g := range games {
		fmt.Fprintf(&b, "%s (%s) updated %s\n", g.Name, g.Slug, g.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil, textOutput{Message: strings.TrimRight(b.String(), "\n")}, nil
}

// --- get_game ---

type getGameInput struct {
	Name string `json:"name" jsonschema:"Game name or slug to fetch"`
}

func handleGetGame(ctx context.Context, req *mcp.CallToolRequest, input getGameInput) (*mcp.CallToolResult, textOutput, error) {
	if input.Name == "" {
		return nil, textOutput{}, fmt.Errorf("name is required")
	}
	store, err := openGameStore()
	if err != nil {
		return nil, textOutput{}, err
	}
	_, source, err := store.Load(input.Name)
	if err != nil {
		return nil, textOutput{}, err
	}
	return nil, textOutput{Message: source}, nil
}
