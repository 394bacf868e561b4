package subtitle

import "testing"

func TestLineBreaker(t *testing.T) {
	b := &LineBreaker{MaxCharsPerLine: 20, MaxLines: 2}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"fits", "Short line", "Short line"},
		{"rejoins", "Short\nline", "Short line"},
		{"balanced", "This sentence is a bit too long", "This sentence is\na bit too long"},
		{"single word", "Supercalifragilisticexpialidocious", "Supercalifragilisticexpialidocious"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Break(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLineBreakerTooLong(t *testing.T) {
	b := &LineBreaker{MaxCharsPerLine: 10, MaxLines: 2}
	if b.TooLong("twenty chars exactly") {
		t.Error("expected 20 characters to fit two lines of 10")
	}
	if !b.TooLong("twenty one characters") {
		t.Error("expected 21 characters to overflow")
	}
}
