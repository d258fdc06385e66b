package deck

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Hello world.",
			expected: "Hello world.",
		},
		{
			name:     "whitespace runs collapse",
			input:    "Hello   world.\n\nSecond  line.",
			expected: "Hello world. Second line.",
		},
		{
			name:     "control characters stripped",
			input:    "Hello\x00\x07 world\x1b.",
			expected: "Hello world.",
		},
		{
			name:     "non-breaking space normalized",
			input:    "Hello world.",
			expected: "Hello world.",
		},
		{
			name:     "zero-width marks stripped",
			input:    "He​llo‌ ‍wor⁠ld\uFEFF.",
			expected: "Hello world.",
		},
		{
			name:     "gender signs stripped",
			input:    "Speaker ♂ and ♀ speaker.",
			expected: "Speaker and speaker.",
		},
		{
			name:     "tabs collapse with the rest",
			input:    "col1\tcol2",
			expected: "col1 col2",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Interesting presentation.json")

	export := map[string]any{
		"slides": []map[string]any{
			{"index": 1, "notes": "First.", "title": "Opening"},
			{"notes": "Second."},
		},
	}
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)

	if got := src.Name(); got != "Interesting presentation" {
		t.Errorf("Name() = %q", got)
	}

	slides, err := src.Slides()
	if err != nil {
		t.Fatalf("Slides() error: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	if slides[0].Title != "Opening" || slides[0].Index != 1 {
		t.Errorf("unexpected first slide %+v", slides[0])
	}
	// A record without an index gets one from its position.
	if slides[1].Index != 2 {
		t.Errorf("expected backfilled index 2, got %d", slides[1].Index)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := src.Slides(); err == nil {
		t.Error("expected error for missing export file")
	}
}
