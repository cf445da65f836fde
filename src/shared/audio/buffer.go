package audio

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Buffer is a decoded waveform. Samples are interleaved by channel and
// normalized so that full scale is ±1.0. A Buffer is never mutated after
// it is built; every transformation returns a new one.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

func (b Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return errors.Newf("Sample rate must be positive, got %d", b.SampleRate)
	}

	if b.Channels != 1 && b.Channels != 2 {
		return errors.Newf("Channel count must be 1 or 2, got %d", b.Channels)
	}

	if len(b.Samples)%b.Channels != 0 {
		return errors.New("Sample count is not a multiple of the channel count")
	}

	return nil
}

func (b Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}

	return len(b.Samples) / b.Channels
}

// Duration in seconds
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(b.Frames()) / float64(b.SampleRate)
}

// Head keeps at most the first `seconds` of audio
func (b Buffer) Head(seconds float64) Buffer {
	if seconds <= 0 || b.SampleRate <= 0 {
		return b
	}

	frames := int(math.Ceil(seconds * float64(b.SampleRate)))
	if frames >= b.Frames() {
		return b
	}

	return Buffer{
		SampleRate: b.SampleRate,
		Channels:   b.Channels,
		Samples:    b.Samples[:frames*b.Channels],
	}
}

// Mono averages all channels into one signal
func (b Buffer) Mono() []float64 {
	frames := b.Frames()
	mono := make([]float64, frames)
	if frames == 0 {
		return mono
	}

	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < b.Channels; c++ {
			sum += float64(b.Samples[i*b.Channels+c])
		}
		mono[i] = sum / float64(b.Channels)
	}

	return mono
}

// ToStereo duplicates a single channel onto two. Stereo input is returned
// as is, anything wider keeps its first two channels.
func (b Buffer) ToStereo() Buffer {
	switch {
	case b.Channels == 2:
		return b
	case b.Channels == 1:
		samples := make([]float32, len(b.Samples)*2)
		for i, sample := range b.Samples {
			samples[2*i] = sample
			samples[2*i+1] = sample
		}
		return Buffer{SampleRate: b.SampleRate, Channels: 2, Samples: samples}
	case b.Channels > 2:
		return b.selectChannels(2)
	default:
		return b
	}
}

// ToMono downmixes to a single channel
func (b Buffer) ToMono() Buffer {
	if b.Channels == 1 {
		return b
	}

	mono := b.Mono()
	samples := make([]float32, len(mono))
	for i, sample := range mono {
		samples[i] = float32(sample)
	}

	return Buffer{SampleRate: b.SampleRate, Channels: 1, Samples: samples}
}

func (b Buffer) selectChannels(channels int) Buffer {
	frames := b.Frames()
	samples := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		copy(samples[i*channels:(i+1)*channels], b.Samples[i*b.Channels:i*b.Channels+channels])
	}

	return Buffer{SampleRate: b.SampleRate, Channels: channels, Samples: samples}
}

// Resample converts to another sample rate with linear interpolation
func (b Buffer) Resample(sampleRate int) Buffer {
	if sampleRate <= 0 || sampleRate == b.SampleRate || b.Frames() == 0 {
		return b
	}

	srcFrames := b.Frames()
	ratio := float64(b.SampleRate) / float64(sampleRate)
	dstFrames := int(math.Floor(float64(srcFrames) / ratio))
	samples := make([]float32, dstFrames*b.Channels)

	for i := 0; i < dstFrames; i++ {
		pos := float64(i) * ratio
		left := int(pos)
		right := left + 1
		if right >= srcFrames {
			right = srcFrames - 1
		}
		frac := float32(pos - float64(left))

		for c := 0; c < b.Channels; c++ {
			l := b.Samples[left*b.Channels+c]
			r := b.Samples[right*b.Channels+c]
			samples[i*b.Channels+c] = l + (r-l)*frac
		}
	}

	return Buffer{SampleRate: sampleRate, Channels: b.Channels, Samples: samples}
}

// conform applies the channel and sample rate parts of LoadOptions
func (b Buffer) conform(opts LoadOptions) Buffer {
	switch opts.Channels {
	case 1:
		b = b.ToMono()
	case 2:
		b = b.ToStereo()
	default:
		if b.Channels > 2 {
			b = b.selectChannels(2)
		}
	}

	return b.Resample(opts.SampleRate)
}
