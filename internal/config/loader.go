package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Load reads the configuration: defaults, then the YAML file viper has
// been pointed at, then environment overrides. Validation is left to the
// caller so commands that need no backend (help, completion) stay usable
// without credentials.
func Load() (Config, error) {
	cfg := Default()

	if viper.IsSet("backend") {
		cfg.Backend = viper.GetString("backend")
	}
	if viper.IsSet("default_voice") {
		cfg.DefaultVoice = viper.GetString("default_voice")
	}
	if viper.IsSet("output_dir") {
		cfg.OutputDir = viper.GetString("output_dir")
	}

	if viper.IsSet("output.format") {
		cfg.Output.Format = viper.GetString("output.format")
	}
	if viper.IsSet("output.quality") {
		cfg.Output.Quality = viper.GetString("output.quality")
	}

	if viper.IsSet("deck.include_empty_notes") {
		cfg.Deck.IncludeEmptyNotes = viper.GetBool("deck.include_empty_notes")
	}
	if viper.IsSet("deck.include_slide_titles") {
		cfg.Deck.IncludeSlideTitles = viper.GetBool("deck.include_slide_titles")
	}
	if viper.IsSet("deck.overwrite_script") {
		cfg.Deck.OverwriteScript = viper.GetBool("deck.overwrite_script")
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Cache.Dir = viper.GetString("cache.dir")
	}

	if viper.IsSet("elevenlabs.api_key") {
		cfg.ElevenLabs.APIKey = viper.GetString("elevenlabs.api_key")
	}
	if viper.IsSet("elevenlabs.model_id") {
		cfg.ElevenLabs.ModelID = viper.GetString("elevenlabs.model_id")
	}

	if viper.IsSet("azure.api_key") {
		cfg.Azure.APIKey = viper.GetString("azure.api_key")
	}
	if viper.IsSet("azure.region") {
		cfg.Azure.Region = viper.GetString("azure.region")
	}

	// Environment variables take precedence over the file.
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return cfg, nil
}
