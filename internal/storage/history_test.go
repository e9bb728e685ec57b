package storage

import "testing"

func TestHistoryAppendAndRecent(t *testing.T) {
	s := NewHistoryStore(t.TempDir())

	for _, body := range []string{"a", "b", "c"} {
		if err := s.Append(PromptRecord{Body: body, Model: "grok-3", Outcome: "code"}); err != nil {
			t.Fatalf("Append(%q) error = %v", body, err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Body != "b" || recent[1].Body != "c" {
		t.Errorf("Recent(2) = %+v, want last two records in order", recent)
	}
	if recent[1].CreatedAt.IsZero() {
		t.Error("Append should stamp CreatedAt")
	}
}

func TestHistoryClear(t *testing.T) {
	s := NewHistoryStore(t.TempDir())

	if err := s.Append(PromptRecord{Body: "x", Outcome: "error"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	records, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List() after clear = %d records, want 0", len(records))
	}
}

func TestHistoryEmptyStore(t *testing.T) {
	s := NewHistoryStore(t.TempDir())

	records, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records != nil {
		t.Errorf("List() = %v, want nil for empty store", records)
	}
}
