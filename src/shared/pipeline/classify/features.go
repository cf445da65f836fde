package classify

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	frameLength = 2048
	hopLength   = 512
	rolloffPart = 0.85
)

// Features are frame means over the analysed window
type Features struct {
	Centroid         float64
	Rolloff          float64
	ZeroCrossingRate float64
}

// Extract computes the short-time features of a mono signal. Frames are
// centred, so the signal is zero padded by half a frame on both sides.
func Extract(signal []float64, sampleRate int) (Features, error) {
	if sampleRate <= 0 {
		return Features{}, errors.Newf("Invalid sample rate %d", sampleRate)
	}

	if len(signal) < frameLength {
		return Features{}, errors.Newf("Signal too short for analysis: %d samples, need %d", len(signal), frameLength)
	}

	padded := make([]float64, len(signal)+frameLength)
	copy(padded[frameLength/2:], signal)

	frameCount := 1 + (len(padded)-frameLength)/hopLength
	fft := fourier.NewFFT(frameLength)
	window := hann(frameLength)
	binWidth := float64(sampleRate) / float64(frameLength)

	frame := make([]float64, frameLength)
	coefficients := make([]complex128, frameLength/2+1)
	magnitudes := make([]float64, frameLength/2+1)

	var centroidSum, rolloffSum, zcrSum float64

	for i := 0; i < frameCount; i++ {
		offset := i * hopLength
		raw := padded[offset : offset+frameLength]

		zcrSum += zeroCrossingRate(raw)

		for j := range frame {
			frame[j] = raw[j] * window[j]
		}
		coefficients = fft.Coefficients(coefficients, frame)
		for j, c := range coefficients {
			magnitudes[j] = math.Hypot(real(c), imag(c))
		}

		centroidSum += centroid(magnitudes, binWidth)
		rolloffSum += rolloff(magnitudes, binWidth)
	}

	features := Features{
		Centroid:         centroidSum / float64(frameCount),
		Rolloff:          rolloffSum / float64(frameCount),
		ZeroCrossingRate: zcrSum / float64(frameCount),
	}

	if math.IsNaN(features.Centroid) || math.IsNaN(features.Rolloff) || math.IsNaN(features.ZeroCrossingRate) {
		return Features{}, errors.New("Spectral features are not finite")
	}

	return features, nil
}

// periodic Hann window
func hann(n int) []float64 {
	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return window
}

// silent frames have a centroid of 0
func centroid(magnitudes []float64, binWidth float64) float64 {
	var weighted, total float64
	for k, m := range magnitudes {
		weighted += float64(k) * binWidth * m
		total += m
	}

	if total <= 0 {
		return 0
	}

	return weighted / total
}

func rolloff(magnitudes []float64, binWidth float64) float64 {
	total := 0.0
	for _, m := range magnitudes {
		total += m
	}

	if total <= 0 {
		return 0
	}

	threshold := rolloffPart * total
	cumulative := 0.0
	for k, m := range magnitudes {
		cumulative += m
		if cumulative >= threshold {
			return float64(k) * binWidth
		}
	}

	return float64(len(magnitudes)-1) * binWidth
}

// zero counts as positive
func zeroCrossingRate(frame []float64) float64 {
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame))
}
