package voice

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/markvox/markvox/internal/audio"
)

// Fake is a deterministic in-process Synthesizer. It writes a short
// silent WAV clip for every request and succeeds unless told otherwise,
// which is what lets the parser and orchestrator be exercised without a
// vendor account.
type Fake struct {
	// ClipDuration is the length of every generated clip.
	ClipDuration time.Duration
	// SampleRate of the generated clips.
	SampleRate int
	// FailVoices lists voice names whose synthesis always fails.
	FailVoices []string
	// FailCalls lists 0-based call indexes that fail regardless of voice.
	FailCalls []int

	mu    sync.Mutex
	calls []FakeCall
}

// FakeCall records one Synthesize invocation.
type FakeCall struct {
	Text   string
	Voice  string
	Path   string
	Format Format
}

var _ Synthesizer = (*Fake)(nil)

// NewFake creates a Fake that always succeeds, producing half-second
// clips at 22050 Hz.
func NewFake() *Fake {
	return &Fake{
		ClipDuration: 500 * time.Millisecond,
		SampleRate:   22050,
	}
}

// Voices returns a fixed pair of voices.
func (f *Fake) Voices() ([]Voice, error) {
	return []Voice{
		{ID: "fake-1", Name: "Aria", Category: "fake", Locale: "en-US", Gender: "female"},
		{ID: "fake-2", Name: "Guy", Category: "fake", Locale: "en-US", Gender: "male"},
	}, nil
}

// FindVoice resolves against the fixed voice list.
func (f *Fake) FindVoice(name string) (string, error) {
	voices, _ := f.Voices()
	for _, v := range voices {
		if strings.EqualFold(v.Name, name) {
			return v.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrVoiceNotFound, name)
}

// Synthesize writes a silent clip to path, or fails if the voice or call
// index is marked for failure.
func (f *Fake) Synthesize(_ context.Context, text, voiceName, path string, format Format) error {
	f.mu.Lock()
	index := len(f.calls)
	f.calls = append(f.calls, FakeCall{Text: text, Voice: voiceName, Path: path, Format: format})
	f.mu.Unlock()

	if text == "" {
		return ErrEmptyText
	}
	for _, v := range f.FailVoices {
		if v == voiceName {
			return fmt.Errorf("%w: voice %s configured to fail", ErrSynthesisFailed, voiceName)
		}
	}
	for _, i := range f.FailCalls {
		if i == index {
			return fmt.Errorf("%w: call %d configured to fail", ErrSynthesisFailed, index)
		}
	}

	clip := audio.Silence(f.ClipDuration, f.SampleRate)
	var buf bytes.Buffer
	if err := clip.Encode(&buf); err != nil {
		return err
	}
	return writeArtifact(path, buf.Bytes(), format, f.SampleRate)
}

// Calls returns the recorded invocations in order.
func (f *Fake) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallCount returns how many times Synthesize ran.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
