package voice

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Azure talks to the Azure Speech Service REST API.
type Azure struct {
	apiKey  string
	region  string
	baseURL string // overrides the region endpoint when set, for tests
	client  *http.Client
	limiter *rate.Limiter

	mu     sync.Mutex
	voices []Voice
}

var _ Synthesizer = (*Azure)(nil)

// NewAzure creates an Azure Speech client for the given region.
func NewAzure(apiKey, region string) *Azure {
	return &Azure{
		apiKey:  apiKey,
		region:  region,
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

func (a *Azure) endpoint() string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return fmt.Sprintf("https://%s.tts.speech.microsoft.com", a.region)
}

type azureVoice struct {
	Name        string `json:"Name"`
	ShortName   string `json:"ShortName"`
	DisplayName string `json:"DisplayName"`
	Locale      string `json:"Locale"`
	Gender      string `json:"Gender"`
}

// Voices lists the region's neural voices.
func (a *Azure) Voices() ([]Voice, error) {
	req, err := http.NewRequest(http.MethodGet, a.endpoint()+"/cognitiveservices/voices/list", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("azure returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed []azureVoice
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	voices := make([]Voice, 0, len(parsed))
	for _, v := range parsed {
		voices = append(voices, Voice{
			ID:          v.ShortName,
			Name:        v.ShortName,
			Category:    "azure",
			Description: fmt.Sprintf("%s %s voice", v.Locale, v.Gender),
			Locale:      v.Locale,
			Gender:      v.Gender,
		})
	}
	return voices, nil
}

// FindVoice resolves a short name ("en-US-JennyNeural") to itself after
// confirming the region offers it.
func (a *Azure) FindVoice(name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.voices == nil {
		voices, err := a.Voices()
		if err != nil {
			return "", err
		}
		a.voices = voices
	}

	for _, v := range a.voices {
		if strings.EqualFold(v.Name, name) {
			return v.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrVoiceNotFound, name)
}

// outputFormat maps the neutral format request to Azure's
// X-Microsoft-OutputFormat identifier.
func (a *Azure) outputFormat(f Format) string {
	if f.Container == "wav" {
		return "riff-24khz-16bit-mono-pcm"
	}
	switch f.Quality {
	case "medium":
		return "audio-24khz-96kbitrate-mono-mp3"
	case "low":
		return "audio-24khz-48kbitrate-mono-mp3"
	default:
		return "audio-24khz-160kbitrate-mono-mp3"
	}
}

// Synthesize speaks text via the SSML synthesis endpoint and writes the
// response audio to path. Azure addresses voices directly by short name,
// no ID lookup round-trip is needed.
func (a *Azure) Synthesize(ctx context.Context, text, voiceName, path string, format Format) error {
	if text == "" {
		return ErrEmptyText
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	var escaped strings.Builder
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return fmt.Errorf("failed to escape SSML text: %w", err)
	}
	ssml := fmt.Sprintf(
		`<speak version='1.0' xml:lang='en-US'><voice name='%s'>%s</voice></speak>`,
		voiceName, escaped.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.endpoint()+"/cognitiveservices/v1", strings.NewReader(ssml))
	if err != nil {
		return fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", a.outputFormat(format))

	log.Debug("azure synthesis", "voice", voiceName, "region", a.region, "chars", len(text))

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("azure speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: azure status %d: %s", ErrSynthesisFailed, resp.StatusCode, string(msg))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: azure returned empty audio", ErrSynthesisFailed)
	}

	return writeArtifact(path, data, format, 24000)
}
