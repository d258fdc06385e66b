// Package config owns the markvox configuration surface.
package config

import (
	"errors"
	"fmt"

	"github.com/markvox/markvox/internal/voice"
)

// Configuration errors are fatal at startup, before any document is
// touched.
var (
	ErrMissingDefaultVoice = errors.New("no default voice configured")
	ErrMissingCredentials  = errors.New("backend credentials missing")
	ErrInvalidFormat       = errors.New("invalid output format")
	ErrInvalidQuality      = errors.New("invalid output quality")
)

// Config contains all markvox settings. Values load from the YAML config
// file first, then environment variables override.
type Config struct {
	// Backend selects the TTS service: elevenlabs, azure or fake.
	Backend string `yaml:"backend" env:"MARKVOX_BACKEND"`

	// DefaultVoice backs every segment without an explicit voice tag.
	DefaultVoice string `yaml:"default_voice" env:"MARKVOX_DEFAULT_VOICE"`

	// OutputDir anchors relative section file paths.
	OutputDir string `yaml:"output_dir" env:"MARKVOX_OUTPUT_DIR"`

	Output OutputConfig `yaml:"output"`
	Deck   DeckConfig   `yaml:"deck"`
	Cache  CacheConfig  `yaml:"cache"`

	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Azure      AzureConfig      `yaml:"azure"`
}

// OutputConfig controls the final artifact encoding.
type OutputConfig struct {
	Format  string `yaml:"format" env:"MARKVOX_OUTPUT_FORMAT"`
	Quality string `yaml:"quality" env:"MARKVOX_OUTPUT_QUALITY"`
}

// DeckConfig controls the slide-deck pathway.
type DeckConfig struct {
	IncludeEmptyNotes  bool `yaml:"include_empty_notes" env:"MARKVOX_DECK_INCLUDE_EMPTY_NOTES"`
	IncludeSlideTitles bool `yaml:"include_slide_titles" env:"MARKVOX_DECK_INCLUDE_SLIDE_TITLES"`
	OverwriteScript    bool `yaml:"overwrite_script" env:"MARKVOX_DECK_OVERWRITE_SCRIPT"`
}

// CacheConfig controls the segment synthesis cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" env:"MARKVOX_CACHE_ENABLED"`
	Dir     string `yaml:"dir" env:"MARKVOX_CACHE_DIR"`
}

// ElevenLabsConfig holds ElevenLabs credentials and model choice.
type ElevenLabsConfig struct {
	APIKey  string `yaml:"api_key" env:"MARKVOX_ELEVENLABS_API_KEY"`
	ModelID string `yaml:"model_id" env:"MARKVOX_ELEVENLABS_MODEL_ID"`
}

// AzureConfig holds Azure Speech credentials.
type AzureConfig struct {
	APIKey string `yaml:"api_key" env:"MARKVOX_AZURE_API_KEY"`
	Region string `yaml:"region" env:"MARKVOX_AZURE_REGION"`
}

// Default returns a Config with the shipped defaults.
func Default() Config {
	return Config{
		Backend:   "elevenlabs",
		OutputDir: "output",
		Output:    OutputConfig{Format: "mp3", Quality: "high"},
		Deck:      DeckConfig{IncludeSlideTitles: true},
		ElevenLabs: ElevenLabsConfig{
			ModelID: "eleven_monolingual_v1",
		},
	}
}

// Validate reports the first user-actionable problem with the
// configuration. Every error here terminates the run before processing.
func (c Config) Validate() error {
	switch c.Output.Format {
	case "mp3", "wav":
	default:
		return fmt.Errorf("%w: %q (want mp3 or wav)", ErrInvalidFormat, c.Output.Format)
	}

	switch c.Output.Quality {
	case "high", "medium", "low":
	default:
		return fmt.Errorf("%w: %q (want high, medium or low)", ErrInvalidQuality, c.Output.Quality)
	}

	switch c.Backend {
	case "elevenlabs":
		if c.ElevenLabs.APIKey == "" || c.ElevenLabs.APIKey == "your_api_key_here" {
			return fmt.Errorf("%w: set elevenlabs.api_key in the config file", ErrMissingCredentials)
		}
	case "azure":
		if c.Azure.APIKey == "" || c.Azure.Region == "" {
			return fmt.Errorf("%w: set azure.api_key and azure.region in the config file", ErrMissingCredentials)
		}
	case "fake":
	default:
		return fmt.Errorf("%w: %q", voice.ErrUnknownBackend, c.Backend)
	}

	if c.DefaultVoice == "" {
		return fmt.Errorf("%w: set default_voice in the config file", ErrMissingDefaultVoice)
	}
	return nil
}

// VoiceSettings converts the config to backend settings.
func (c Config) VoiceSettings() voice.Settings {
	return voice.Settings{
		Backend: c.Backend,
		ElevenLabs: voice.ElevenLabsSettings{
			APIKey:  c.ElevenLabs.APIKey,
			ModelID: c.ElevenLabs.ModelID,
		},
		Azure: voice.AzureSettings{
			APIKey: c.Azure.APIKey,
			Region: c.Azure.Region,
		},
	}
}

// Format converts the config to the backend-neutral output format.
func (c Config) Format() voice.Format {
	return voice.Format{Container: c.Output.Format, Quality: c.Output.Quality}
}
