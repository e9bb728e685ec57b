package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeychainStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	s := newKeychainStore()

	if _, err := s.Get(KeyAPIKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Set(KeyAPIKey, "xai-test-value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(KeyAPIKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "xai-test-value" {
		t.Errorf("Get() = %q, want %q", got, "xai-test-value")
	}

	if err := s.Delete(KeyAPIKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(KeyAPIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestKeychainStoreDeleteMissing(t *testing.T) {
	keyring.MockInit()
	s := newKeychainStore()

	if err := s.Delete("never-set"); err != nil {
		t.Errorf("Delete of missing key error = %v, want nil", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := newFileStore(dir)

	if _, err := s.Get(KeyAPIKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Set(KeyAPIKey, "xai-file-value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(KeyAPIKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "xai-file-value" {
		t.Errorf("Get() = %q, want %q", got, "xai-file-value")
	}

	if err := s.Delete(KeyAPIKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(KeyAPIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	s := newFileStore(dir)

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "secrets.json"))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("secrets file mode = %o, want 0600", perm)
	}
}
