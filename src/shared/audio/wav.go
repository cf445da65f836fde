package audio

import (
	"context"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

const (
	wavPCMFormat   = 1
	wavBitDepth    = 16
	wavReadFrames  = 4096
	int16FullScale = 32767
)

var _ Loader = WAVLoader{}

type WAVLoader struct{}

func (WAVLoader) Load(ctx context.Context, path string, opts LoadOptions) (Buffer, error) {
	errctx := cerr.Field("path", path)

	if ctx.Err() != nil {
		return Buffer{}, errctx.Wrap(ctx.Err()).Error("Context cancelled before decoding")
	}

	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, errctx.Wrap(err).Error("Failed to open WAV file")
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return Buffer{}, errctx.Error("Not a valid WAV file")
	}

	if decoder.WavAudioFormat != wavPCMFormat {
		return Buffer{}, errctx.Field("wav_format", decoder.WavAudioFormat).
			Error("Only integer PCM WAV files can be decoded in process")
	}

	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	bitDepth := int(decoder.BitDepth)
	if channels <= 0 || sampleRate <= 0 || bitDepth <= 0 {
		return Buffer{}, errctx.Error("WAV header is missing format information")
	}

	maxSamples := math.MaxInt
	if opts.MaxDuration > 0 {
		maxSamples = int(math.Ceil(opts.MaxDuration*float64(sampleRate))) * channels
	}

	scale := 1 / math.Pow(2, float64(bitDepth-1))
	chunk := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:   make([]int, wavReadFrames*channels),
	}

	samples := []float32{}
	for len(samples) < maxSamples {
		n, err := decoder.PCMBuffer(chunk)
		if err != nil {
			return Buffer{}, errctx.Wrap(err).Error("Failed to read PCM data")
		}

		if n == 0 {
			break
		}

		for _, value := range chunk.Data[:n] {
			if bitDepth == 8 {
				// 8 bit WAV is unsigned
				value -= 128
			}
			samples = append(samples, float32(float64(value)*scale))
		}
	}

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}

	// drop a trailing partial frame if the file was truncated mid frame
	samples = samples[:len(samples)-len(samples)%channels]

	buffer := Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}

	return buffer.conform(opts), nil
}

// WriteWAV encodes the buffer as 16 bit PCM
func WriteWAV(path string, buffer Buffer) error {
	errctx := cerr.Field("path", path)

	if err := buffer.Validate(); err != nil {
		return errctx.Wrap(err).Error("Refusing to write an invalid buffer")
	}

	file, err := os.Create(path)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create WAV file")
	}
	defer file.Close()

	data := make([]int, len(buffer.Samples))
	for i, sample := range buffer.Samples {
		clamped := math.Max(-1, math.Min(1, float64(sample)))
		data[i] = int(math.Round(clamped * int16FullScale))
	}

	encoder := wav.NewEncoder(file, buffer.SampleRate, wavBitDepth, buffer.Channels, wavPCMFormat)
	err = encoder.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: buffer.Channels, SampleRate: buffer.SampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	})
	if err != nil {
		return errctx.Wrap(err).Error("Failed to encode WAV data")
	}

	if err := encoder.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finalize WAV file")
	}

	return nil
}
