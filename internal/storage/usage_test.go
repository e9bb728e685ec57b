package storage

import "testing"

func TestUsageRecordAndCurrent(t *testing.T) {
	dir := t.TempDir()
	s := NewUsageStore(dir)

	s.RecordUsage(120, 800)
	s.RecordUsage(80, 400)

	cur := s.Current()
	if cur.PromptTokens != 200 || cur.CompletionTokens != 1200 || cur.Requests != 2 {
		t.Errorf("Current() = %+v, want 200/1200/2", cur)
	}

	// A new store over the same directory resumes the session.
	resumed := NewUsageStore(dir)
	if got := resumed.Current(); got.Requests != 2 {
		t.Errorf("resumed Requests = %d, want 2", got.Requests)
	}
}

func TestUsageReset(t *testing.T) {
	s := NewUsageStore(t.TempDir())
	s.RecordUsage(10, 20)
	s.Reset()

	if cur := s.Current(); cur.Requests != 0 || cur.PromptTokens != 0 {
		t.Errorf("Current() after reset = %+v, want zeroes", cur)
	}
}

func TestUsageDailyHistory(t *testing.T) {
	s := NewUsageStore(t.TempDir())
	s.RecordUsage(50, 100)
	s.RecordUsage(25, 75)

	today := s.TodayUsage()
	if today == nil {
		t.Fatal("TodayUsage() = nil, want an entry")
	}
	if today.Requests != 2 || today.PromptTokens != 75 || today.CompletionTokens != 175 {
		t.Errorf("TodayUsage() = %+v, want 2 requests, 75/175 tokens", today)
	}

	history := s.History(7)
	if len(history) != 1 {
		t.Fatalf("History(7) = %d entries, want 1", len(history))
	}
}

func TestFormatTokenCount(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{950, "950"},
		{48543, "48.5K"},
		{2_400_000, "2.4M"},
	}
	for _, tc := range cases {
		if got := FormatTokenCount(tc.in); got != tc.want {
			t.Errorf("FormatTokenCount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
