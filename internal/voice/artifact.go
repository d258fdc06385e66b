package voice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/markvox/markvox/internal/audio"
)

// writeArtifact persists backend audio to path, creating parent
// directories as needed. WAV requests wrap the backend's raw PCM (at
// pcmRate) in a RIFF container; everything else is written verbatim.
func writeArtifact(path string, data []byte, format Format, pcmRate int) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if format.Container == "wav" && !bytes.HasPrefix(data, []byte("RIFF")) {
		clip := &audio.Clip{Data: data, SampleRate: pcmRate, Channels: 1}
		return clip.EncodeFile(path)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio artifact: %w", err)
	}
	return nil
}
