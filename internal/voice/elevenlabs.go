package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io"
	elevenLabsDefaultModel = "eleven_monolingual_v1"

	// ElevenLabs allows bursts but throttles sustained traffic; staying
	// around one request a second keeps long decks from tripping 429s.
	elevenLabsRequestsPerMinute = 60
)

// ElevenLabs talks to the ElevenLabs REST API.
type ElevenLabs struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter

	mu     sync.Mutex
	voices []Voice // lazily fetched, reused for name lookups
}

var _ Synthesizer = (*ElevenLabs)(nil)

// NewElevenLabs creates an ElevenLabs client. An empty modelID selects the
// default model.
func NewElevenLabs(apiKey, modelID string) *ElevenLabs {
	if modelID == "" {
		modelID = elevenLabsDefaultModel
	}
	return &ElevenLabs{
		apiKey:  apiKey,
		modelID: modelID,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 90 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(elevenLabsRequestsPerMinute)/60, 5),
	}
}

type elevenLabsVoice struct {
	VoiceID     string            `json:"voice_id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Labels      map[string]string `json:"labels"`
}

type elevenLabsVoicesResponse struct {
	Voices []elevenLabsVoice `json:"voices"`
}

type elevenLabsSpeechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Voices lists the account's voices.
func (e *ElevenLabs) Voices() ([]Voice, error) {
	req, err := http.NewRequest(http.MethodGet, e.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed elevenLabsVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	voices := make([]Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		voices = append(voices, Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Category:    v.Category,
			Description: v.Description,
			Locale:      v.Labels["locale"],
			Gender:      v.Labels["gender"],
		})
	}
	return voices, nil
}

// FindVoice resolves a voice display name to its ID, case-insensitively.
// The voice list is fetched once and reused across lookups.
func (e *ElevenLabs) FindVoice(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.voices == nil {
		voices, err := e.Voices()
		if err != nil {
			return "", err
		}
		e.voices = voices
	}

	for _, v := range e.voices {
		if strings.EqualFold(v.Name, name) {
			return v.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrVoiceNotFound, name)
}

// outputFormat maps the neutral format request to an ElevenLabs
// output_format parameter.
func (e *ElevenLabs) outputFormat(f Format) string {
	if f.Container == "wav" {
		// ElevenLabs has no WAV container; raw PCM at a fixed rate is the
		// closest it offers, the caller wraps it.
		return "pcm_24000"
	}
	switch f.Quality {
	case "medium":
		return "mp3_44100_64"
	case "low":
		return "mp3_44100_32"
	default:
		return "mp3_44100_128"
	}
}

// Synthesize speaks text with the named voice and writes the response
// audio to path.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceName, path string, format Format) error {
	if text == "" {
		return ErrEmptyText
	}

	voiceID, err := e.FindVoice(voiceName)
	if err != nil {
		// Raw voice IDs are accepted alongside display names.
		if len(voiceName) == 20 && !strings.ContainsAny(voiceName, " \t") {
			voiceID = voiceName
		} else {
			return err
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	body, err := json.Marshal(elevenLabsSpeechRequest{Text: text, ModelID: e.modelID})
	if err != nil {
		return fmt.Errorf("failed to marshal speech request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		e.baseURL, url.PathEscape(voiceID), e.outputFormat(format))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	log.Debug("elevenlabs synthesis", "voice", voiceName, "model", e.modelID, "chars", len(text))

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: elevenlabs status %d: %s", ErrSynthesisFailed, resp.StatusCode, string(msg))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("%w: elevenlabs returned empty audio", ErrSynthesisFailed)
	}

	return writeArtifact(path, audio, format, 24000)
}
