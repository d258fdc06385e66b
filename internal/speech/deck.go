package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/markvox/markvox/internal/deck"
	"github.com/markvox/markvox/internal/document"
	"github.com/markvox/markvox/internal/voice"
)

// DeckOptions configures the slide-deck pathway.
type DeckOptions struct {
	DefaultVoice       string
	OutputDir          string // fallback base when the source has no directory of its own
	Format             voice.Format
	IncludeEmptyNotes  bool
	IncludeSlideTitles bool
	OverwriteScript    bool
	OverwriteAudio     bool
}

// dirSource is implemented by sources anchored to a filesystem location;
// their output lands in a sibling directory of the deck.
type dirSource interface {
	Dir() string
}

// ProcessDeck narrates a slide deck: the deck is adapted into a script,
// the script is persisted next to the deck so later runs skip extraction,
// and the parsed sections run through the orchestrator. The script on
// disk is authoritative once written; edits to it survive re-runs unless
// OverwriteScript discards them.
func (o *Orchestrator) ProcessDeck(ctx context.Context, src deck.Source, opts DeckOptions) (*Results, error) {
	name := src.Name()
	sanitized := strings.ReplaceAll(name, " ", "_")

	baseDir := opts.OutputDir
	if d, ok := src.(dirSource); ok {
		baseDir = d.Dir()
	}
	outputDir := filepath.Join(baseDir, sanitized)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create deck output directory: %w", err)
	}

	scriptPath := filepath.Join(outputDir, sanitized+".md")
	script, err := o.loadOrGenerateScript(src, scriptPath, opts)
	if err != nil {
		return nil, err
	}

	sections := document.ParseAnnotated(script)
	if len(sections) == 0 {
		log.Warn("deck produced no narratable sections", "deck", name)
		return NewResults(), nil
	}

	results := o.Run(ctx, nil, sections, RunOptions{
		DefaultVoice: opts.DefaultVoice,
		OutputDir:    outputDir,
		Format:       opts.Format,
		Overwrite:    opts.OverwriteAudio,
	})
	return results, nil
}

// loadOrGenerateScript reuses an existing persisted script, regenerating
// it from the slide source when absent or when the caller forces it.
func (o *Orchestrator) loadOrGenerateScript(src deck.Source, scriptPath string, opts DeckOptions) (string, error) {
	if !opts.OverwriteScript {
		if data, err := os.ReadFile(scriptPath); err == nil {
			log.Info("using existing narration script", "path", scriptPath)
			return string(data), nil
		}
	}

	slides, err := src.Slides()
	if err != nil {
		return "", fmt.Errorf("failed to extract slides: %w", err)
	}

	script := deck.Adapt(src.Name(), slides, deck.Options{
		DefaultVoice:       opts.DefaultVoice,
		IncludeEmptyNotes:  opts.IncludeEmptyNotes,
		IncludeSlideTitles: opts.IncludeSlideTitles,
	})

	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("failed to persist narration script: %w", err)
	}
	log.Info("narration script written", "path", scriptPath)
	return script, nil
}
