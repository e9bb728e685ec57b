package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYFORGE_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != dir {
		t.Errorf("Root = %q, want %q", cfg.Root, dir)
	}
	if _, err := os.Stat(cfg.GamesDir); err != nil {
		t.Errorf("games dir not created: %v", err)
	}
	if cfg.Settings != (Settings{}) {
		t.Errorf("Settings = %+v, want zero value with no settings file", cfg.Settings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYFORGE_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	temp := 0.3
	cfg.Settings = Settings{
		Model:       "grok-3-mini",
		MaxTokens:   8000,
		Temperature: &temp,
		Prefix:      "custom prefix",
	}
	if err := cfg.SaveSettings(); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after save error = %v", err)
	}
	got := reloaded.Settings
	if got.Model != "grok-3-mini" || got.MaxTokens != 8000 || got.Prefix != "custom prefix" {
		t.Errorf("Settings = %+v, want %+v", got, cfg.Settings)
	}
	if got.Temperature == nil || *got.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want 0.3", got.Temperature)
	}
}

func TestSettingsZeroTemperatureSurvivesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYFORGE_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	zero := 0.0
	cfg.Settings.Temperature = &zero
	if err := cfg.SaveSettings(); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after save error = %v", err)
	}
	if reloaded.Settings.Temperature == nil || *reloaded.Settings.Temperature != 0 {
		t.Errorf("Temperature = %v, want explicit 0", reloaded.Settings.Temperature)
	}
}

func TestLoadRejectsMalformedSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYFORGE_HOME", dir)

	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("model: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load() with malformed settings.yaml should fail")
	}
}
