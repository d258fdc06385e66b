// Package main provides the entry point for the markvox CLI application.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markvox/markvox/internal/config"
	"github.com/markvox/markvox/internal/deck"
	"github.com/markvox/markvox/internal/document"
	"github.com/markvox/markvox/internal/speech"
	"github.com/markvox/markvox/internal/voice"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile     string
	backend        string
	defaultVoice   string
	outputDir      string
	outputFormat   string
	overwriteAudio bool

	annotated bool

	noSlideTitles     bool
	includeEmptyNotes bool
	overwriteScript   bool

	rootCmd = &cobra.Command{
		Use:          "markvox",
		Short:        "Turn markdown scripts and slide decks into narrated audio",
		SilenceUsage: true,
	}

	speakCmd = &cobra.Command{
		Use:   "speak <script.md>",
		Short: "Synthesize a markdown voice script into audio files",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpeak,
	}

	deckCmd = &cobra.Command{
		Use:   "deck <slides.json>",
		Short: "Narrate a slide deck from its speaker notes",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeck,
	}

	voicesCmd = &cobra.Command{
		Use:   "voices [file]",
		Short: "List the voices the configured backend offers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVoices,
	}
)

// loadConfig builds the effective configuration and fails fast on
// anything a synthesis run could not recover from.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	// CLI flags beat both the file and the environment.
	if backend != "" {
		cfg.Backend = backend
	}
	if defaultVoice != "" {
		cfg.DefaultVoice = defaultVoice
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newOrchestrator wires the configured backend and, when enabled, the
// segment cache into a ready-to-run orchestrator.
func newOrchestrator(cfg config.Config) (*speech.Orchestrator, error) {
	synth, err := voice.New(cfg.VoiceSettings())
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return speech.NewOrchestrator(synth, nil), nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		scope := gap.NewScope(gap.User, "markvox")
		dir, err = scope.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("unable to locate cache directory: %w", err)
		}
	}
	cache, err := speech.NewCache(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to open segment cache: %w", err)
	}
	log.Debug("Segment cache enabled", "dir", dir)
	return speech.NewOrchestrator(synth, cache), nil
}

func runSpeak(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("unable to read script: %w", err)
	}

	var (
		aliases  document.AliasTable
		sections []document.Section
	)
	if annotated {
		sections = document.ParseAnnotated(string(raw))
	} else {
		aliases, sections = document.Parse(string(raw))
	}
	if len(sections) == 0 {
		log.Warn("No speakable sections found", "script", args[0])
		return nil
	}

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	results := orch.Run(cmd.Context(), aliases, sections, speech.RunOptions{
		DefaultVoice: cfg.DefaultVoice,
		OutputDir:    cfg.OutputDir,
		Format:       cfg.Format(),
		Overwrite:    overwriteAudio,
	})
	return reportResults(results)
}

func runDeck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source := deck.NewFileSource(args[0])

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	results, err := orch.ProcessDeck(cmd.Context(), source, speech.DeckOptions{
		DefaultVoice:       cfg.DefaultVoice,
		OutputDir:          cfg.OutputDir,
		Format:             cfg.Format(),
		IncludeEmptyNotes:  includeEmptyNotes || cfg.Deck.IncludeEmptyNotes,
		IncludeSlideTitles: cfg.Deck.IncludeSlideTitles && !noSlideTitles,
		OverwriteScript:    overwriteScript || cfg.Deck.OverwriteScript,
		OverwriteAudio:     overwriteAudio,
	})
	if err != nil {
		return err
	}
	return reportResults(results)
}

func runVoices(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	synth, err := voice.New(cfg.VoiceSettings())
	if err != nil {
		return err
	}

	voices, err := synth.Voices()
	if err != nil {
		return fmt.Errorf("unable to list voices: %w", err)
	}

	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("unable to create voices file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(voices)
}

// reportResults logs per-section outcomes and returns an error when any
// section failed, so the process exit code reflects the run.
func reportResults(results *speech.Results) error {
	succeeded, failed := results.Counts()
	for _, path := range results.Paths() {
		if ok, _ := results.Get(path); ok {
			log.Info("Section synthesized", "path", path)
		} else {
			log.Error("Section failed", "path", path)
		}
	}
	log.Info("Run complete", "succeeded", succeeded, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d sections failed", failed, succeeded+failed)
	}
	return nil
}

func main() {
	log.SetReportTimestamp(false)
	if os.Getenv("MARKVOX_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	pf.StringVar(&backend, "backend", "", "TTS backend: elevenlabs, azure or fake")
	pf.StringVar(&defaultVoice, "voice", "", "default voice for untagged segments")
	pf.StringVarP(&outputDir, "output-dir", "o", "", "directory for generated audio files")
	pf.StringVarP(&outputFormat, "format", "f", "", "output container: mp3 or wav")
	pf.BoolVar(&overwriteAudio, "overwrite-audio", false, "regenerate audio files that already exist")

	speakCmd.Flags().BoolVar(&annotated, "annotated", false, "parse {file=..., voice=...} heading annotations")

	deckCmd.Flags().BoolVar(&noSlideTitles, "no-titles", false, "omit slide titles from section headings")
	deckCmd.Flags().BoolVar(&includeEmptyNotes, "include-empty", false, "keep slides without speaker notes")
	deckCmd.Flags().BoolVar(&overwriteScript, "overwrite-script", false, "regenerate the narration script even if it exists")

	rootCmd.AddCommand(speakCmd, deckCmd, voicesCmd, configCmd)

	cobra.OnInitialize(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatal("Could not read configuration file", "path", configFile, "err", err)
			}
		}
	})
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "markvox")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "markvox")}, dirs...)
	}

	if c := os.Getenv("MARKVOX_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("markvox")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "markvox.yml")
}
