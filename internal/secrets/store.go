// Package secrets provides opt-in storage for the xAI API key. By default
// the key lives only in session memory; persisting it is an explicit user
// action (`playforge auth set`). Storage uses the OS keychain (macOS
// Keychain, Linux Secret Service) when available, with a file-based
// fallback for environments without one.
package secrets

import "errors"

// serviceName is the keychain service identifier for all playforge secrets.
const serviceName = "playforge"

// KeyAPIKey is the storage key for the xAI API credential.
const KeyAPIKey = "xai/api_key"

// ErrNotFound is returned when a secret key does not exist.
var ErrNotFound = errors.New("secret not found")

// Store provides credential storage.
type Store interface {
	// Get retrieves a secret by key. Returns ErrNotFound if not present.
	Get(key string) (string, error)
	// Set stores a secret under the given key, replacing any existing value.
	Set(key, value string) error
	// Delete removes a secret. No error if the key doesn't exist.
	Delete(key string) error
}

// New returns the best available Store for the current environment. It
// probes the OS keychain first and falls back to a file store under dir.
func New(dir string) Store {
	ks := newKeychainStore()
	probeKey := "__playforge_probe__"
	if err := ks.Set(probeKey, "ok"); err != nil {
		return newFileStore(dir)
	}
	_ = ks.Delete(probeKey)
	return ks
}
