package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newElevenLabsTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/voices", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"voices": []map[string]any{
				{
					"voice_id": "abc123", "name": "Aria", "category": "premade",
					"labels": map[string]string{"locale": "en-US", "gender": "female"},
				},
				{"voice_id": "def456", "name": "Guy", "category": "premade"},
			},
		})
	})
	mux.HandleFunc("POST /v1/text-to-speech/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("output_format") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("fake-mp3-bytes"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestElevenLabsVoices(t *testing.T) {
	server := newElevenLabsTestServer(t)
	client := NewElevenLabs("test-key", "")
	client.baseURL = server.URL

	voices, err := client.Voices()
	if err != nil {
		t.Fatalf("Voices() error: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("expected 2 voices, got %d", len(voices))
	}
	if voices[0].ID != "abc123" || voices[0].Name != "Aria" {
		t.Errorf("unexpected first voice %+v", voices[0])
	}
	if voices[0].Locale != "en-US" || voices[0].Gender != "female" {
		t.Errorf("labels not mapped: %+v", voices[0])
	}
}

func TestElevenLabsFindVoice(t *testing.T) {
	server := newElevenLabsTestServer(t)
	client := NewElevenLabs("test-key", "")
	client.baseURL = server.URL

	id, err := client.FindVoice("aria") // case-insensitive
	if err != nil {
		t.Fatalf("FindVoice error: %v", err)
	}
	if id != "abc123" {
		t.Errorf("FindVoice = %q, want abc123", id)
	}

	if _, err := client.FindVoice("Nobody"); !errors.Is(err, ErrVoiceNotFound) {
		t.Errorf("expected ErrVoiceNotFound, got %v", err)
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	server := newElevenLabsTestServer(t)
	client := NewElevenLabs("test-key", "")
	client.baseURL = server.URL

	path := filepath.Join(t.TempDir(), "out", "hello.mp3")
	err := client.Synthesize(context.Background(), "Hello.", "Aria", path,
		Format{Container: "mp3", Quality: "high"})
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if string(data) != "fake-mp3-bytes" {
		t.Errorf("artifact content = %q", data)
	}
}

func TestElevenLabsSynthesizeEmptyText(t *testing.T) {
	client := NewElevenLabs("test-key", "")
	err := client.Synthesize(context.Background(), "", "Aria", "x.mp3", Format{Container: "mp3"})
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestElevenLabsOutputFormat(t *testing.T) {
	client := NewElevenLabs("k", "")
	tests := []struct {
		format   Format
		expected string
	}{
		{Format{Container: "mp3", Quality: "high"}, "mp3_44100_128"},
		{Format{Container: "mp3", Quality: "medium"}, "mp3_44100_64"},
		{Format{Container: "mp3", Quality: "low"}, "mp3_44100_32"},
		{Format{Container: "mp3"}, "mp3_44100_128"},
		{Format{Container: "wav"}, "pcm_24000"},
	}
	for _, tt := range tests {
		if got := client.outputFormat(tt.format); got != tt.expected {
			t.Errorf("outputFormat(%+v) = %q, want %q", tt.format, got, tt.expected)
		}
	}
}
