package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/secrets"
	"github.com/playforge/playforge/internal/terminal"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored xAI API key",
	Long:  "By default the API key lives only in session memory or XAI_API_KEY. `auth set` opts in to storing it in the OS keychain.",
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the xAI API key in the keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSecretStore()
		if err != nil {
			return err
		}

		fmt.Printf("xAI API key (input hidden): ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key := strings.TrimSpace(string(raw))
		if key == "" {
			return errors.New("no key entered")
		}

		if err := store.Set(secrets.KeyAPIKey, key); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		terminal.Success("API key stored")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSecretStore()
		if err != nil {
			return err
		}
		if _, source := resolveAPIKey("", store); source != "" {
			terminal.Success(fmt.Sprintf("API key available from %s", source))
		} else {
			terminal.Warning("No API key. Set XAI_API_KEY or run `playforge auth set`.")
		}
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSecretStore()
		if err != nil {
			return err
		}
		if err := store.Delete(secrets.KeyAPIKey); err != nil {
			return fmt.Errorf("failed to remove key: %w", err)
		}
		terminal.Success("Stored API key removed")
		return nil
	},
}

func openSecretStore() (secrets.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return secrets.New(cfg.Root), nil
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
}
