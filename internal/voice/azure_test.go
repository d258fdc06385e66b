package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/markvox/markvox/internal/audio"
)

func newAzureTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /cognitiveservices/voices/list", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"ShortName": "en-US-JennyNeural", "DisplayName": "Jenny", "Locale": "en-US", "Gender": "Female"},
			{"ShortName": "en-GB-RyanNeural", "DisplayName": "Ryan", "Locale": "en-GB", "Gender": "Male"},
		})
	})
	mux.HandleFunc("POST /cognitiveservices/v1", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "<speak") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.Header.Get("X-Microsoft-OutputFormat") {
		case "riff-24khz-16bit-mono-pcm":
			var buf bytes.Buffer
			audio.Silence(100*time.Millisecond, 24000).Encode(&buf)
			w.Write(buf.Bytes())
		default:
			w.Write([]byte("azure-mp3-bytes"))
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAzureVoices(t *testing.T) {
	server := newAzureTestServer(t)
	client := NewAzure("test-key", "westus")
	client.baseURL = server.URL

	voices, err := client.Voices()
	if err != nil {
		t.Fatalf("Voices() error: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("expected 2 voices, got %d", len(voices))
	}
	if voices[0].ID != "en-US-JennyNeural" {
		t.Errorf("unexpected voice ID %q", voices[0].ID)
	}
	if voices[0].Locale != "en-US" || voices[0].Gender != "Female" {
		t.Errorf("metadata not mapped: %+v", voices[0])
	}
}

func TestAzureFindVoice(t *testing.T) {
	server := newAzureTestServer(t)
	client := NewAzure("test-key", "westus")
	client.baseURL = server.URL

	id, err := client.FindVoice("en-us-jennyneural")
	if err != nil {
		t.Fatalf("FindVoice error: %v", err)
	}
	if id != "en-US-JennyNeural" {
		t.Errorf("FindVoice = %q", id)
	}

	if _, err := client.FindVoice("fr-FR-Missing"); !errors.Is(err, ErrVoiceNotFound) {
		t.Errorf("expected ErrVoiceNotFound, got %v", err)
	}
}

func TestAzureSynthesizeWAV(t *testing.T) {
	server := newAzureTestServer(t)
	client := NewAzure("test-key", "westus")
	client.baseURL = server.URL

	path := filepath.Join(t.TempDir(), "seg.wav")
	err := client.Synthesize(context.Background(), "Hello <world> & co.", "en-US-JennyNeural",
		path, Format{Container: "wav"})
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	clip, err := audio.DecodeFile(path)
	if err != nil {
		t.Fatalf("artifact is not decodable WAV: %v", err)
	}
	if clip.SampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", clip.SampleRate)
	}
}

func TestAzureSynthesizeMP3(t *testing.T) {
	server := newAzureTestServer(t)
	client := NewAzure("test-key", "westus")
	client.baseURL = server.URL

	path := filepath.Join(t.TempDir(), "out.mp3")
	err := client.Synthesize(context.Background(), "Hello.", "en-US-JennyNeural",
		path, Format{Container: "mp3", Quality: "medium"})
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "azure-mp3-bytes" {
		t.Errorf("artifact content = %q", data)
	}
}

func TestAzureOutputFormat(t *testing.T) {
	client := NewAzure("k", "westus")
	tests := []struct {
		format   Format
		expected string
	}{
		{Format{Container: "mp3", Quality: "high"}, "audio-24khz-160kbitrate-mono-mp3"},
		{Format{Container: "mp3", Quality: "medium"}, "audio-24khz-96kbitrate-mono-mp3"},
		{Format{Container: "mp3", Quality: "low"}, "audio-24khz-48kbitrate-mono-mp3"},
		{Format{Container: "wav"}, "riff-24khz-16bit-mono-pcm"},
	}
	for _, tt := range tests {
		if got := client.outputFormat(tt.format); got != tt.expected {
			t.Errorf("outputFormat(%+v) = %q, want %q", tt.format, got, tt.expected)
		}
	}
}

func TestNewFactory(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  error
	}{
		{
			name:     "elevenlabs with key",
			settings: Settings{Backend: "elevenlabs", ElevenLabs: ElevenLabsSettings{APIKey: "k"}},
		},
		{
			name:     "azure with key",
			settings: Settings{Backend: "azure", Azure: AzureSettings{APIKey: "k", Region: "westus"}},
		},
		{name: "fake", settings: Settings{Backend: "fake"}},
		{
			name:     "elevenlabs missing key",
			settings: Settings{Backend: "elevenlabs"},
			wantErr:  ErrMissingAPIKey,
		},
		{
			name:     "unknown backend",
			settings: Settings{Backend: "polly"},
			wantErr:  ErrUnknownBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth, err := New(tt.settings)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if synth == nil {
				t.Error("New() returned nil Synthesizer")
			}
		})
	}
}
