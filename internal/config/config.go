package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the user-tunable generation defaults, kept in
// ~/.playforge/settings.yaml. Zero values mean "use the built-in default".
type Settings struct {
	// Model is the xAI model used for generation.
	Model string `yaml:"model,omitempty"`

	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// Temperature controls sampling randomness. A pointer so that an
	// explicit `temperature: 0` is distinguishable from the key being
	// absent.
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Prefix and Suffix override the built-in prompt envelope.
	Prefix string `yaml:"prefix,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
}

// Config holds the resolved application paths and settings.
type Config struct {
	// Root is the playforge home directory (~/.playforge by default,
	// overridable via PLAYFORGE_HOME).
	Root string

	// GamesDir is where saved games live.
	GamesDir string

	// Settings are loaded from settings.yaml; missing file means defaults.
	Settings Settings
}

// Load resolves the playforge home, creates the directory layout, and reads
// settings.yaml if present.
func Load() (*Config, error) {
	root := os.Getenv("PLAYFORGE_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, ".playforge")
	}

	gamesDir := filepath.Join(root, "games")
	if err := os.MkdirAll(gamesDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create games directory: %w", err)
	}

	cfg := &Config{
		Root:     root,
		GamesDir: gamesDir,
	}

	settings, err := readSettings(cfg.settingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings

	return cfg, nil
}

func (c *Config) settingsPath() string {
	return filepath.Join(c.Root, "settings.yaml")
}

// SaveSettings writes the current settings to settings.yaml.
func (c *Config) SaveSettings() error {
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(c.settingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func readSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}
