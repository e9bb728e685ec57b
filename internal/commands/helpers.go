package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/playforge/playforge/internal/secrets"
)

// keySource labels where the active API key came from, for display.
const (
	keySourceSession     = "session"
	keySourceEnvironment = "environment"
	keySourceKeychain    = "keychain"
)

// resolveAPIKey finds the xAI API key without persisting anything. Priority:
// key set this session (/key), then XAI_API_KEY, then the secret store.
// Returns the key and its source label, or "" if none is available.
func resolveAPIKey(sessionKey string, store secrets.Store) (key, source string) {
	if sessionKey != "" {
		return sessionKey, keySourceSession
	}
	if env := os.Getenv("XAI_API_KEY"); env != "" {
		return env, keySourceEnvironment
	}
	if store != nil {
		if stored, err := store.Get(secrets.KeyAPIKey); err == nil && stored != "" {
			return stored, keySourceKeychain
		}
	}
	return "", ""
}

// preview returns the first few lines of source for inline display.
func preview(source string, maxLines int) string {
	lines := strings.Split(strings.TrimSpace(source), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	shown := strings.Join(lines[:maxLines], "\n")
	return fmt.Sprintf("%s\n... (%d more lines)", shown, len(lines)-maxLines)
}

// timeAgo returns a human-readable relative time string.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case d < 30*24*time.Hour:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		months := int(d.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}
}
