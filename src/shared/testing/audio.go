package testing

import (
	"math"
	"path/filepath"

	"github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
)

const FixtureSampleRate = 22050

// Tone is a sine wave of the given amplitude, 0 amplitude gives silence
func Tone(freq float64, seconds float64, amplitude float64, channels int) audio.Buffer {
	frames := int(seconds * FixtureSampleRate)
	samples := make([]float32, frames*channels)

	for i := 0; i < frames; i++ {
		value := float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/FixtureSampleRate))
		for c := 0; c < channels; c++ {
			samples[i*channels+c] = value
		}
	}

	return audio.Buffer{
		SampleRate: FixtureSampleRate,
		Channels:   channels,
		Samples:    samples,
	}
}

func Silence(seconds float64, channels int) audio.Buffer {
	return Tone(0, seconds, 0, channels)
}

// WriteFixture writes the buffer as <dir>/<name> and returns the path
func WriteFixture(dir string, name string, buffer audio.Buffer) string {
	path := filepath.Join(dir, name)
	err := audio.WriteWAV(path, buffer)
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	return path
}
