package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# TTS backend: elevenlabs, azure or fake
backend: "elevenlabs"
# voice used for segments without an explicit [voice:X] tag
default_voice: ""
# directory for generated audio files
output_dir: "output"

output:
  # final container: mp3 or wav
  format: "mp3"
  # encoding quality: high, medium or low
  quality: "high"

deck:
  # keep slides that have no speaker notes
  include_empty_notes: false
  # prefix each section with the slide title
  include_slide_titles: true
  # regenerate narration scripts even when they exist
  overwrite_script: false

cache:
  # reuse identical synthesis requests across runs
  enabled: false
  # cache location (defaults to the user cache directory)
  dir: ""

elevenlabs:
  api_key: "your_api_key_here"
  model_id: "eleven_monolingual_v1"

azure:
  api_key: ""
  region: ""
`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the markvox config file",
	Long:    "Edit the markvox config file. We'll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.",
	Example: "markvox config\nmarkvox config --config path/to/config.yml",
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("markvox", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
