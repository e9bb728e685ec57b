package prompt

import (
	"errors"
	"testing"
)

func TestComposeJoinsTrimmedParts(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		body    string
		suffix  string
		want    string
		wantErr error
	}{
		{
			name:   "all parts present",
			prefix: "Write me a game.",
			body:   "Pong with two paddles",
			suffix: "Code only.",
			want:   "Write me a game. Pong with two paddles Code only.",
		},
		{
			name: "empty prefix and suffix",
			body: "Build a snake game",
			want: "Build a snake game",
		},
		{
			name:   "surrounding whitespace is trimmed",
			prefix: "  prefix\n",
			body:   "\t body ",
			suffix: " suffix  ",
			want:   "prefix body suffix",
		},
		{
			name:    "empty body fails",
			prefix:  "prefix",
			suffix:  "suffix",
			wantErr: ErrEmptyBody,
		},
		{
			name:    "whitespace-only body fails",
			prefix:  "prefix",
			body:    "   \n\t ",
			suffix:  "suffix",
			wantErr: ErrEmptyBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.prefix, tt.body, tt.suffix)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Compose() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Compose() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	a, err := Compose(DefaultPrefix, "Asteroids with a rotating ship", DefaultSuffix)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	b, err := Compose(DefaultPrefix, "Asteroids with a rotating ship", DefaultSuffix)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if a != b {
		t.Error("identical inputs produced different compositions")
	}
}

func TestSpecCompose(t *testing.T) {
	s := Spec{Prefix: "p", Body: "b", Suffix: "s"}
	got, err := s.Compose()
	if err != nil {
		t.Fatalf("Spec.Compose() error = %v", err)
	}
	if got != "p b s" {
		t.Errorf("Spec.Compose() = %q, want %q", got, "p b s")
	}
}
