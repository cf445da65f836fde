package audio

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

type LoadOptions struct {
	// SampleRate of the returned buffer, 0 keeps the source rate
	SampleRate int
	// Channels of the returned buffer: 1 downmixes, 2 forces stereo,
	// 0 keeps the source layout (capped at stereo)
	Channels int
	// MaxDuration in seconds, 0 reads everything. Audio past the cap is
	// never decoded.
	MaxDuration float64
}

type Loader interface {
	Load(ctx context.Context, path string, opts LoadOptions) (Buffer, error)
}

var _ Loader = SelectLoader{}

// SelectLoader decodes WAV files in process and hands anything else to
// ffmpeg
type SelectLoader struct {
	wav    WAVLoader
	ffmpeg Loader
}

func NewSelectLoader(wav WAVLoader, ffmpeg Loader) SelectLoader {
	return SelectLoader{
		wav:    wav,
		ffmpeg: ffmpeg,
	}
}

func (s SelectLoader) Load(ctx context.Context, path string, opts LoadOptions) (Buffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		buffer, err := s.wav.Load(ctx, path, opts)
		if err == nil || s.ffmpeg == nil {
			return buffer, err
		}

		// e.g. float WAVs, which the in-process decoder doesn't handle
		return s.ffmpeg.Load(ctx, path, opts)
	}

	if s.ffmpeg == nil {
		return Buffer{}, cerr.Field("path", path).Error("No decoder available for this audio format")
	}

	return s.ffmpeg.Load(ctx, path, opts)
}
