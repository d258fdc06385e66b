package audio

import (
	"github.com/charmbracelet/log"
)

// Concat joins clips in order into a single clip at the first clip's
// sample rate and channel count. Clips with a different rate are appended
// as-is with a warning, not resampled.
func Concat(clips []*Clip) (*Clip, error) {
	if len(clips) == 0 {
		return nil, ErrNoAudioData
	}

	out := &Clip{
		SampleRate: clips[0].SampleRate,
		Channels:   clips[0].Channels,
	}

	total := 0
	for _, clip := range clips {
		total += len(clip.Data)
	}
	out.Data = make([]byte, 0, total)

	for i, clip := range clips {
		if clip.SampleRate != out.SampleRate {
			log.Warn("sample rate mismatch, concatenating without resampling",
				"segment", i, "rate", clip.SampleRate, "want", out.SampleRate)
		}
		if clip.Channels != out.Channels {
			log.Warn("channel count mismatch, concatenating without remixing",
				"segment", i, "channels", clip.Channels, "want", out.Channels)
		}
		out.Data = append(out.Data, clip.Data...)
	}

	if len(out.Data) == 0 {
		return nil, ErrNoAudioData
	}
	return out, nil
}
