package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// encodeTimeout bounds a single ffmpeg run; encoding a narration section
// is quick, anything longer means a hung process.
const encodeTimeout = 30 * time.Second

// EncodeMP3 encodes the clip to an MP3 file via ffmpeg, feeding raw PCM on
// stdin. bitrate is an ffmpeg audio bitrate such as "128k".
func EncodeMP3(ctx context.Context, clip *Clip, path, bitrate string) error {
	if len(clip.Data) == 0 {
		return ErrNoAudioData
	}
	if bitrate == "" {
		bitrate = "128k"
	}

	ctx, cancel := context.WithTimeout(ctx, encodeTimeout)
	defer cancel()

	args := []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(clip.SampleRate),
		"-ac", strconv.Itoa(clip.Channels),
		"-i", "-",
		"-b:a", bitrate,
		"-y",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdin = bytes.NewReader(clip.Data)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg encode timeout: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	return nil
}
