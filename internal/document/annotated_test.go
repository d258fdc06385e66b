package document

import (
	"testing"
)

func TestParseAnnotated(t *testing.T) {
	input := `# Deck
## Intro {file=intro.mp3, voice=Aria}
Welcome to the talk.
## Middle
Still the same speaker.
## Outro {voice=Bella}
Thanks for listening.`

	sections := ParseAnnotated(input)

	// The top-level "Deck" heading has an empty body and is dropped.
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	tests := []struct {
		title    string
		filePath string
		voice    string
		text     string
	}{
		{"Intro", "intro.mp3", "Aria", "Welcome to the talk."},
		{"Middle", "middle.mp3", "Aria", "Still the same speaker."},
		{"Outro", "outro.mp3", "Bella", "Thanks for listening."},
	}

	for i, tt := range tests {
		section := sections[i]
		if section.Title != tt.title {
			t.Errorf("section %d title = %q, want %q", i, section.Title, tt.title)
		}
		if section.FilePath != tt.filePath {
			t.Errorf("section %d file = %q, want %q", i, section.FilePath, tt.filePath)
		}
		if len(section.Segments) != 1 {
			t.Fatalf("section %d: expected 1 segment, got %d", i, len(section.Segments))
		}
		if tt.voice != "" && section.Segments[0].Voice != tt.voice {
			t.Errorf("section %d voice = %q, want %q", i, section.Segments[0].Voice, tt.voice)
		}
		if tt.text != "" && section.Segments[0].Text != tt.text {
			t.Errorf("section %d text = %q, want %q", i, section.Segments[0].Text, tt.text)
		}
	}
}

func TestParseAnnotatedDropsEmptySections(t *testing.T) {
	input := "## Silent {voice=Aria}\n---\n## Spoken {voice=Aria}\nActual words."

	sections := ParseAnnotated(input)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Spoken" {
		t.Errorf("expected Spoken retained, got %q", sections[0].Title)
	}
}

func TestParseAnnotatedVoicelessBeforeFirstAnnotation(t *testing.T) {
	// Sections ahead of the first voice annotation stay voiceless so the
	// caller's default applies.
	input := "## First\nNo voice yet.\n## Second {voice=Aria}\nNow annotated."

	sections := ParseAnnotated(input)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if got := sections[0].Segments[0].Voice; got != "" {
		t.Errorf("expected empty voice before first annotation, got %q", got)
	}
	if got := sections[1].Segments[0].Voice; got != "Aria" {
		t.Errorf("expected Aria, got %q", got)
	}
}

func TestSplitAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		title   string
		file    string
		voice   string
	}{
		{
			name:    "both keys",
			heading: "Intro {file=x.mp3, voice=Aria}",
			title:   "Intro",
			file:    "x.mp3",
			voice:   "Aria",
		},
		{
			name:    "voice only",
			heading: "Intro {voice=Aria}",
			title:   "Intro",
			voice:   "Aria",
		},
		{
			name:    "no block",
			heading: "Plain title",
			title:   "Plain title",
		},
		{
			name:    "whitespace tolerated",
			heading: "Intro { file = x.mp3 , voice = Aria }",
			title:   "Intro",
			file:    "x.mp3",
			voice:   "Aria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, annotations := splitAnnotation(tt.heading)
			if title != tt.title {
				t.Errorf("title = %q, want %q", title, tt.title)
			}
			if annotations["file"] != tt.file {
				t.Errorf("file = %q, want %q", annotations["file"], tt.file)
			}
			if annotations["voice"] != tt.voice {
				t.Errorf("voice = %q, want %q", annotations["voice"], tt.voice)
			}
		})
	}
}
