package artifact

import (
	"errors"
	"strings"
	"testing"
)

func TestEmptySlot(t *testing.T) {
	var s Slot
	if !s.IsEmpty() {
		t.Fatal("new slot should be empty")
	}
	if _, err := s.Source(); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("Source() error = %v, want ErrEmptySlot", err)
	}
	if s.Display() != "" {
		t.Errorf("Display() = %q, want empty", s.Display())
	}
}

func TestSetCodeThenSource(t *testing.T) {
	var s Slot
	s.SetCode("package main", OriginGenerated)

	if !s.IsCode() || s.IsError() || s.IsEmpty() {
		t.Fatal("slot should hold code")
	}
	if s.Origin() != OriginGenerated {
		t.Errorf("Origin() = %v, want generated", s.Origin())
	}
	src, err := s.Source()
	if err != nil {
		t.Fatalf("Source() error = %v", err)
	}
	if src != "package main" {
		t.Errorf("Source() = %q", src)
	}
}

func TestErrorVariantIsNotRunnable(t *testing.T) {
	var s Slot
	s.SetCode("package main", OriginDemo)
	s.SetError("completion", "HTTP 500")

	if !s.IsError() {
		t.Fatal("slot should hold an error")
	}
	if _, err := s.Source(); !errors.Is(err, ErrNotRunnable) {
		t.Fatalf("Source() error = %v, want ErrNotRunnable", err)
	}
	stage, detail := s.ErrorMessage()
	if stage != "completion" || detail != "HTTP 500" {
		t.Errorf("ErrorMessage() = %q, %q", stage, detail)
	}
	if !strings.Contains(s.Display(), "HTTP 500") {
		t.Errorf("Display() = %q, want detail included", s.Display())
	}
}

func TestSetCodeReplacesError(t *testing.T) {
	var s Slot
	s.SetError("completion", "boom")
	s.SetCode("src", OriginEdited)

	if !s.IsCode() {
		t.Fatal("slot should hold code after SetCode")
	}
	if stage, detail := s.ErrorMessage(); stage != "" || detail != "" {
		t.Errorf("stale error message: %q %q", stage, detail)
	}
}

func TestClear(t *testing.T) {
	var s Slot
	s.SetCode("src", OriginLoaded)
	s.Clear()
	if !s.IsEmpty() {
		t.Fatal("Clear() should empty the slot")
	}
}
