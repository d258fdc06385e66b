package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var (
	ErrNotWAV            = errors.New("not a RIFF/WAVE stream")
	ErrUnsupportedFormat = errors.New("unsupported WAV encoding, want 16-bit PCM")
	ErrNoAudioData       = errors.New("no audio data")
)

// Clip is decoded 16-bit little-endian PCM audio.
type Clip struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// Duration returns the clip's playing time.
func (c *Clip) Duration() time.Duration {
	bytesPerSecond := c.SampleRate * c.Channels * 2
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(float64(len(c.Data)) / float64(bytesPerSecond) * float64(time.Second))
}

// Silence returns a silent clip of the given duration, mono.
func Silence(d time.Duration, sampleRate int) *Clip {
	samples := int(d.Seconds() * float64(sampleRate))
	return &Clip{
		Data:       make([]byte, samples*2),
		SampleRate: sampleRate,
		Channels:   1,
	}
}

const (
	wavHeaderSize = 44
	pcmFormatCode = 1
)

// Decode reads a RIFF/WAVE stream carrying 16-bit PCM.
func Decode(r io.Reader) (*Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV stream: %w", err)
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, ErrNotWAV
	}

	clip := &Clip{}
	haveFormat := false

	// Walk the chunk list; only fmt and data matter here.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrUnsupportedFormat
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			bitDepth := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if format != pcmFormatCode || bitDepth != 16 {
				return nil, ErrUnsupportedFormat
			}
			clip.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			clip.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			haveFormat = true
		case "data":
			clip.Data = data[body : body+size]
		}

		// Chunks are word-aligned.
		pos = body + size + size%2
	}

	if !haveFormat {
		return nil, ErrUnsupportedFormat
	}
	if len(clip.Data) == 0 {
		return nil, ErrNoAudioData
	}
	return clip, nil
}

// DecodeFile reads a WAV file from disk.
func DecodeFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the clip as a canonical 44-byte-header WAV stream.
func (c *Clip) Encode(w io.Writer) error {
	if len(c.Data) == 0 {
		return ErrNoAudioData
	}

	header := make([]byte, wavHeaderSize)
	byteRate := c.SampleRate * c.Channels * 2

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(wavHeaderSize-8+len(c.Data)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormatCode)
	binary.LittleEndian.PutUint16(header[22:24], uint16(c.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(c.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(c.Channels*2))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(c.Data)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(c.Data); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

// EncodeFile writes the clip to a WAV file, creating parent directories is
// the caller's job.
func (c *Clip) EncodeFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
