package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/storage"
	"github.com/playforge/playforge/internal/terminal"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage the saved game library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return gamesListCmd.RunE(cmd, args)
	},
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved games",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openGameStore()
		if err != nil {
			return err
		}
		games, err := store.List()
		if err != nil {
			return err
		}
		if len(games) == 0 {
			terminal.Info("No saved games yet.")
			return nil
		}
		terminal.Header("Saved games")
		terminal.Divider()
		for _, g := range games {
			terminal.Detail(g.Name, fmt.Sprintf("%s, updated %s", g.Slug, timeAgo(g.UpdatedAt)))
		}
		fmt.Println()
		return nil
	},
}

var gamesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved game's source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openGameStore()
		if err != nil {
			return err
		}
		_, source, err := store.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Println(source)
		return nil
	},
}

var gamesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openGameStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		terminal.Success(fmt.Sprintf("Deleted %q", args[0]))
		return nil
	},
}

func openGameStore() (*storage.GameStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return storage.NewGameStore(cfg.GamesDir), nil
}

func init() {
	gamesCmd.AddCommand(gamesListCmd)
	gamesCmd.AddCommand(gamesShowCmd)
	gamesCmd.AddCommand(gamesDeleteCmd)
}
