package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/markvox/markvox/internal/audio"
	"github.com/markvox/markvox/internal/document"
	"github.com/markvox/markvox/internal/voice"
)

// Orchestrator drives per-segment synthesis and assembles each section's
// final audio artifact.
type Orchestrator struct {
	synth   voice.Synthesizer
	cache   *Cache // optional segment cache
	tempDir string
}

// NewOrchestrator creates an orchestrator on top of a synthesis backend.
// cache may be nil to disable segment caching.
func NewOrchestrator(synth voice.Synthesizer, cache *Cache) *Orchestrator {
	return &Orchestrator{
		synth:   synth,
		cache:   cache,
		tempDir: os.TempDir(),
	}
}

// RunOptions configures one orchestration run.
type RunOptions struct {
	// DefaultVoice backs any segment without an explicit voice. May be an
	// alias name.
	DefaultVoice string
	// OutputDir anchors relative section file paths.
	OutputDir string
	// Format of the final per-section artifacts.
	Format voice.Format
	// Overwrite regenerates artifacts that already exist on disk.
	Overwrite bool
}

// Run processes sections strictly in document order and returns the
// path-to-success map. A section failing never aborts the run; failures
// stay isolated. Pre-existing artifacts count as successes when Overwrite
// is off, with no synthesis performed.
func (o *Orchestrator) Run(ctx context.Context, aliases document.AliasTable, sections []document.Section, opts RunOptions) *Results {
	results := NewResults()
	defaultVoice := aliases.Resolve(opts.DefaultVoice)

	for i, section := range sections {
		outputPath := section.FilePath
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(opts.OutputDir, outputPath)
		}

		log.Info("processing section", "index", i+1, "total", len(sections),
			"title", section.Title, "output", outputPath)

		if !opts.Overwrite {
			if _, err := os.Stat(outputPath); err == nil {
				log.Info("artifact exists, skipping synthesis", "output", outputPath)
				results.Set(outputPath, true)
				continue
			}
		}

		if err := o.processSection(ctx, section, defaultVoice, outputPath, opts.Format); err != nil {
			log.Error("section failed", "title", section.Title, "err", err)
			results.Set(outputPath, false)
			continue
		}
		results.Set(outputPath, true)
	}

	succeeded, failed := results.Counts()
	log.Info("run complete", "sections", results.Len(), "succeeded", succeeded, "failed", failed)
	return results
}

// processSection synthesizes every segment of one section and writes the
// final artifact. All-or-nothing: any segment failure fails the section
// and nothing is written. Temporary segment artifacts are removed on every
// path out.
func (o *Orchestrator) processSection(ctx context.Context, section document.Section, defaultVoice, outputPath string, format voice.Format) error {
	segments := make([]document.VoiceSegment, 0, len(section.Segments))
	for _, seg := range section.Segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		if seg.Voice == "" {
			seg.Voice = defaultVoice
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return fmt.Errorf("section %q has no synthesizable segments", section.Title)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// One segment needs no assembly: synthesize straight to the artifact
	// in its final format.
	if len(segments) == 1 {
		return o.synthesize(ctx, segments[0].Text, segments[0].Voice, outputPath, format)
	}

	tempPaths := make([]string, 0, len(segments))
	defer func() {
		for _, p := range tempPaths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				log.Warn("failed to remove temp artifact", "path", p, "err", err)
			}
		}
	}()

	// Segments are synthesized in order as intermediate WAV artifacts so
	// their PCM can be joined without a vendor-format decoder.
	failures := 0
	segmentFormat := voice.Format{Container: "wav"}
	for i, seg := range segments {
		tempPath := filepath.Join(o.tempDir, fmt.Sprintf("markvox-seg-%s.wav", uuid.NewString()))
		tempPaths = append(tempPaths, tempPath)

		if err := o.synthesize(ctx, seg.Text, seg.Voice, tempPath, segmentFormat); err != nil {
			log.Error("segment synthesis failed", "section", section.Title,
				"segment", i+1, "voice", seg.Voice, "err", err)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d segments failed", failures, len(segments))
	}

	clips := make([]*audio.Clip, 0, len(tempPaths))
	for _, p := range tempPaths {
		clip, err := audio.DecodeFile(p)
		if err != nil {
			return fmt.Errorf("failed to decode segment artifact: %w", err)
		}
		clips = append(clips, clip)
	}

	combined, err := audio.Concat(clips)
	if err != nil {
		return err
	}

	switch format.Container {
	case "wav":
		return combined.EncodeFile(outputPath)
	default:
		return audio.EncodeMP3(ctx, combined, outputPath, bitrateFor(format.Quality))
	}
}

// synthesize runs one segment through the cache and the backend.
func (o *Orchestrator) synthesize(ctx context.Context, text, voiceName, path string, format voice.Format) error {
	if o.cache != nil {
		hit, err := o.cache.Get(voiceName, text, format, path)
		if err != nil {
			log.Warn("cache lookup failed", "err", err)
		}
		if hit {
			log.Debug("segment cache hit", "voice", voiceName, "chars", len(text))
			return nil
		}
	}

	if err := o.synth.Synthesize(ctx, text, voiceName, path, format); err != nil {
		return err
	}

	if o.cache != nil {
		if err := o.cache.Put(voiceName, text, format, path); err != nil {
			log.Warn("cache store failed", "err", err)
		}
	}
	return nil
}

// bitrateFor maps a quality tier to an ffmpeg bitrate.
func bitrateFor(quality string) string {
	switch quality {
	case "medium":
		return "64k"
	case "low":
		return "32k"
	default:
		return "128k"
	}
}
