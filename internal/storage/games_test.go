package storage

import (
	"errors"
	"testing"
)

func TestGameStoreSaveAndLoad(t *testing.T) {
	s := NewGameStore(t.TempDir())

	saved, err := s.Save(GameInfo{Name: "Snake Classic", Prompt: "Build a snake game", Model: "grok-3"}, "package main\n")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Slug != "snake-classic" {
		t.Errorf("Slug = %q, want %q", saved.Slug, "snake-classic")
	}

	info, source, err := s.Load("Snake Classic")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if source != "package main\n" {
		t.Errorf("source = %q, want round-tripped source", source)
	}
	if info.Prompt != "Build a snake game" {
		t.Errorf("Prompt = %q, want original prompt", info.Prompt)
	}

	// Loading by slug works too.
	if _, _, err := s.Load("snake-classic"); err != nil {
		t.Errorf("Load by slug error = %v", err)
	}
}

func TestGameStoreSaveReplaces(t *testing.T) {
	s := NewGameStore(t.TempDir())

	first, err := s.Save(GameInfo{Name: "pong"}, "v1")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := s.Save(GameInfo{Name: "pong"}, "v2")
	if err != nil {
		t.Fatalf("Save() replace error = %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("replacing a game should keep its original CreatedAt")
	}

	_, source, err := s.Load("pong")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if source != "v2" {
		t.Errorf("source = %q, want %q", source, "v2")
	}

	games, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(games) != 1 {
		t.Errorf("List() returned %d games, want 1", len(games))
	}
}

func TestGameStoreLoadMissing(t *testing.T) {
	s := NewGameStore(t.TempDir())

	if _, _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestGameStoreDelete(t *testing.T) {
	s := NewGameStore(t.TempDir())

	if _, err := s.Save(GameInfo{Name: "tetris"}, "src"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete("tetris"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, _, err := s.Load("tetris"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("tetris"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestGameStoreRejectsEmptyName(t *testing.T) {
	s := NewGameStore(t.TempDir())

	if _, err := s.Save(GameInfo{Name: "   "}, "src"); err == nil {
		t.Error("Save() with blank name should fail")
	}
	if _, err := s.Save(GameInfo{Name: "!!!"}, "src"); err == nil {
		t.Error("Save() with unsluggable name should fail")
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Snake Classic", "snake-classic"},
		{"  Pong!! 2 ", "pong-2"},
		{"UPPER_case", "upper-case"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
