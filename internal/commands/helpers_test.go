package commands

import (
	"strings"
	"testing"

	"github.com/playforge/playforge/internal/secrets"
)

// stubStore is an in-memory secrets.Store for tests.
type stubStore struct {
	values map[string]string
}

func (s *stubStore) Get(key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", secrets.ErrNotFound
}

func (s *stubStore) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *stubStore) Delete(key string) error {
	delete(s.values, key)
	return nil
}

func TestResolveAPIKeyPrecedence(t *testing.T) {
	store := &stubStore{values: map[string]string{secrets.KeyAPIKey: "stored-key"}}

	t.Setenv("XAI_API_KEY", "env-key")

	key, source := resolveAPIKey("session-key", store)
	if key != "session-key" || source != keySourceSession {
		t.Errorf("got %q from %q, want session key first", key, source)
	}

	key, source = resolveAPIKey("", store)
	if key != "env-key" || source != keySourceEnvironment {
		t.Errorf("got %q from %q, want env key before keychain", key, source)
	}

	t.Setenv("XAI_API_KEY", "")
	key, source = resolveAPIKey("", store)
	if key != "stored-key" || source != keySourceKeychain {
		t.Errorf("got %q from %q, want stored key last", key, source)
	}

	key, source = resolveAPIKey("", &stubStore{values: map[string]string{}})
	if key != "" || source != "" {
		t.Errorf("got %q from %q, want nothing", key, source)
	}
}

func TestPreview(t *testing.T) {
	src := "a\nb\nc\nd\ne"

	if got := preview(src, 10); got != src {
		t.Errorf("preview with room = %q, want unchanged", got)
	}

	got := preview(src, 2)
	if !strings.HasPrefix(got, "a\nb\n") || !strings.Contains(got, "3 more lines") {
		t.Errorf("preview(2) = %q, want truncation notice", got)
	}
}
