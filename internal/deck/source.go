package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Slide is one extracted slide record: its 1-based position in the deck,
// its speaker notes, and an optional title.
type Slide struct {
	Index int    `json:"index"`
	Notes string `json:"notes"`
	Title string `json:"title,omitempty"`
}

// Source supplies extracted slides in deck order. Extraction itself is an
// external concern; anything that can hand over ordered slide records can
// feed the adapter.
type Source interface {
	// Name returns the deck's display name, used for the script heading
	// and the output directory.
	Name() string

	// Slides returns the deck's slides in presentation order.
	Slides() ([]Slide, error)
}

// FileSource reads slides from a JSON export produced by an external
// extractor: {"slides": [{"index": 1, "notes": "...", "title": "..."}]}.
type FileSource struct {
	path string
}

// NewFileSource creates a Source backed by a slide export file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name derives the deck name from the export filename.
func (s *FileSource) Name() string {
	base := filepath.Base(s.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dir returns the directory holding the export file.
func (s *FileSource) Dir() string {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return filepath.Dir(s.path)
	}
	return filepath.Dir(abs)
}

// Slides reads and decodes the export file. Missing indexes are filled
// from record order.
func (s *FileSource) Slides() ([]Slide, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read slide export: %w", err)
	}

	var export struct {
		Slides []Slide `json:"slides"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to decode slide export: %w", err)
	}

	for i := range export.Slides {
		if export.Slides[i].Index == 0 {
			export.Slides[i].Index = i + 1
		}
	}
	return export.Slides, nil
}
