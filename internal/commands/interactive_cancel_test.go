package commands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/playforge/playforge/internal/artifact"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/storage"
)

func TestCancelHolderTakeRunsAndClears(t *testing.T) {
	var h cancelHolder
	ctx, cancel := context.WithCancel(context.Background())
	h.Set(cancel)

	take := h.Take()
	if take == nil {
		t.Fatal("expected a cancel func")
	}
	take()
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatal("expected the held context to be cancelled")
	}

	if h.Take() != nil {
		t.Fatal("expected the holder to be empty after Take")
	}
}

func TestCancelHolderClearDropsWithoutRunning(t *testing.T) {
	var h cancelHolder
	called := false
	h.Set(func() { called = true })
	h.Clear()
	if called {
		t.Fatal("Clear must not run the cancel func")
	}
	if h.Take() != nil {
		t.Fatal("expected the holder to be empty after Clear")
	}
}

func TestCancelHolderConcurrentSetAndTake(t *testing.T) {
	var h cancelHolder
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := context.WithCancel(context.Background())
			h.Set(cancel)
		}()
		go func() {
			defer wg.Done()
			if cancel := h.Take(); cancel != nil {
				cancel()
			}
		}()
	}

	wg.Wait()
	if cancel := h.Take(); cancel != nil {
		cancel()
	}
}

// Interrupting a request mid-flight must leave the session ready for the
// next prompt: the in-flight guard released and the slot untouched.
func TestGenerateAbortedMidFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	apiBaseURL = srv.URL
	defer func() { apiBaseURL = "" }()

	t.Setenv("PLAYFORGE_HOME", t.TempDir())
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	sess := &session{
		cfg:        cfg,
		slot:       &artifact.Slot{},
		history:    storage.NewHistoryStore(cfg.Root),
		usage:      storage.NewUsageStore(cfg.Root),
		sessionKey: "xai-test-key",
	}

	var h cancelHolder
	ctx, cancel := context.WithCancel(context.Background())
	h.Set(cancel)

	done := make(chan error, 1)
	go func() { done <- sess.generate(ctx, "a pong clone") }()

	time.Sleep(50 * time.Millisecond)
	if interrupt := h.Take(); interrupt != nil {
		interrupt()
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("generate() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("generate did not return after cancellation")
	}

	if sess.generating {
		t.Error("in-flight guard still set after an aborted request")
	}
	if !sess.slot.IsEmpty() {
		t.Error("aborted generation should leave the slot empty")
	}
}
