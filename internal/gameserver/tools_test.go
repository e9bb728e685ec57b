package gameserver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/playforge/playforge/internal/execute"
	"github.com/playforge/playforge/internal/gameview"
)

func TestValidateGameAcceptsDemoSource(t *testing.T) {
	_, out, err := handleValidateGame(context.Background(), nil, validateGameInput{Source: gameview.DemoSource})
	if err != nil {
		t.Fatalf("handleValidateGame() error = %v", err)
	}
	if !strings.Contains(out.Message, "game source is valid") {
		t.Errorf("Message = %q, want validity confirmation", out.Message)
	}
	if !strings.Contains(out.Message, "Snake") {
		t.Errorf("Message = %q, want first frame included", out.Message)
	}
}

func TestValidateGameRejectsForbiddenImports(t *testing.T) {
	src := `package main

import (
	"os"

	"github.com/playforge/playforge/internal/gameview"
)

func NewGameView() gameview.View {
	os.Exit(1)
	return nil
}
`
	_, _, err := handleValidateGame(context.Background(), nil, validateGameInput{Source: src})
	var execErr *execute.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v (%T), want *ExecError", err, err)
	}
	if execErr.Stage != "imports" {
		t.Errorf("Stage = %q, want imports", execErr.Stage)
	}
}

// A view whose Init or Render panics must come back as an error from the
// tool handler, not unwind and take the stdio server down with it.
func TestValidateGamePanicInInitIsAnError(t *testing.T) {
	src := `package main

import "github.com/playforge/playforge/internal/gameview"

type bomb struct{}

func NewGameView() gameview.View { return bomb{} }

func (b bomb) Init(width, height int) { panic("init exploded") }

func (b bomb) Update(ev gameview.Event) bool { return true }

func (b bomb) Render() string { return "" }
`
	_, _, err := handleValidateGame(context.Background(), nil, validateGameInput{Source: src})
	if err == nil {
		t.Fatal("expected an error from a panicking Init")
	}
	var execErr *execute.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v (%T), want *ExecError", err, err)
	}
	if execErr.Stage != "run" {
		t.Errorf("Stage = %q, want run", execErr.Stage)
	}
	if !strings.Contains(execErr.Detail, "init exploded") {
		t.Errorf("Detail = %q, want panic message", execErr.Detail)
	}
}

func TestValidateGamePanicInRenderIsAnError(t *testing.T) {
	src := `package main

import "github.com/playforge/playforge/internal/gameview"

type bomb struct{}

func NewGameView() gameview.View { return bomb{} }

func (b bomb) Init(width, height int) {}

func (b bomb) Update(ev gameview.Event) bool { return true }

func (b bomb) Render() string { panic("render exploded") }
`
	_, _, err := handleValidateGame(context.Background(), nil, validateGameInput{Source: src})
	var execErr *execute.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v (%T), want *ExecError", err, err)
	}
	if execErr.Stage != "run" {
		t.Errorf("Stage = %q, want run", execErr.Stage)
	}
}
