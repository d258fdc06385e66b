// Package voice defines the synthesis capability boundary and the backend
// clients that satisfy it.
package voice

import (
	"context"
	"errors"
)

// Common errors for the synthesis boundary.
var (
	ErrVoiceNotFound    = errors.New("requested voice not found")
	ErrUnknownBackend   = errors.New("unknown TTS backend")
	ErrMissingAPIKey    = errors.New("backend API key missing")
	ErrSynthesisFailed  = errors.New("speech synthesis failed")
	ErrEmptyText        = errors.New("no text to synthesize")
	ErrUnsupportedAudio = errors.New("backend does not support requested format")
)

// Voice describes one backend voice.
type Voice struct {
	ID          string
	Name        string
	Category    string
	Description string
	Locale      string
	Gender      string
}

// Format is the backend-neutral output request. Each backend maps it to
// its own wire format identifier.
type Format struct {
	// Container is the audio container: "mp3" or "wav".
	Container string
	// Quality selects the bitrate tier for lossy containers: "high",
	// "medium" or "low".
	Quality string
}

// Synthesizer is the capability every TTS backend exposes. The parser and
// orchestrator depend on nothing else, which is what lets the whole core
// run against the in-repo fake.
type Synthesizer interface {
	// Voices lists the voices the backend offers.
	Voices() ([]Voice, error)

	// FindVoice resolves a display name to the backend's voice ID,
	// returning ErrVoiceNotFound when no voice matches.
	FindVoice(name string) (string, error)

	// Synthesize speaks text with the named voice and writes the audio
	// artifact to path in the requested format.
	Synthesize(ctx context.Context, text, voiceName, path string, format Format) error
}

// Settings carries the backend selection and credentials needed to build
// a Synthesizer.
type Settings struct {
	Backend    string
	ElevenLabs ElevenLabsSettings
	Azure      AzureSettings
}

// ElevenLabsSettings holds ElevenLabs credentials and model choice.
type ElevenLabsSettings struct {
	APIKey  string
	ModelID string
}

// AzureSettings holds Azure Speech credentials.
type AzureSettings struct {
	APIKey string
	Region string
}

// New builds the Synthesizer selected by settings. Backend names are
// matched case-insensitively; an unknown name is a configuration error.
func New(s Settings) (Synthesizer, error) {
	switch s.Backend {
	case "elevenlabs", "ElevenLabs", "":
		if s.ElevenLabs.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewElevenLabs(s.ElevenLabs.APIKey, s.ElevenLabs.ModelID), nil
	case "azure", "Azure":
		if s.Azure.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewAzure(s.Azure.APIKey, s.Azure.Region), nil
	case "fake":
		return NewFake(), nil
	default:
		return nil, ErrUnknownBackend
	}
}
