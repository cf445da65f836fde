package silence

import (
	"context"
	"math"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
)

const (
	// Window is how much of a stem gets inspected, in seconds
	Window = 5.0
	// Threshold on peak amplitude, full scale being 1.0. Kept low so that
	// quiet but real content survives.
	Threshold = 0.001
	// AnalysisSampleRate of the inspected window
	AnalysisSampleRate = 22050
)

type Decision struct {
	Peak   float64
	RMS    float64
	Silent bool
}

// Check measures a buffer that is already limited to the window
func Check(buffer audio.Buffer) Decision {
	peak := 0.0
	sumSquares := 0.0

	for _, sample := range buffer.Samples {
		value := math.Abs(float64(sample))
		peak = math.Max(peak, value)
		sumSquares += value * value
	}

	rms := 0.0
	if len(buffer.Samples) > 0 {
		rms = math.Sqrt(sumSquares / float64(len(buffer.Samples)))
	}

	return Decision{
		Peak:   peak,
		RMS:    rms,
		Silent: peak < Threshold,
	}
}

type Filter struct {
	loader audio.Loader
}

func NewFilter(loader audio.Loader) Filter {
	return Filter{
		loader: loader,
	}
}

// Inspect loads the first Window seconds of the stem and measures it. The
// error is marked SilenceCheckError.
func (f Filter) Inspect(ctx context.Context, path string) (Decision, error) {
	buffer, err := f.loader.Load(ctx, path, audio.LoadOptions{
		SampleRate:  AnalysisSampleRate,
		MaxDuration: Window,
	})
	if err != nil {
		err = cerr.Field("stem_path", path).Wrap(err).Error("Failed to sample stem for silence")
		return Decision{}, errors.Mark(err, perr.SilenceCheckError)
	}

	return Check(buffer.Head(Window)), nil
}

// IsSilent never fails: a stem that can't be inspected counts as audible
func (f Filter) IsSilent(ctx context.Context, path string) bool {
	decision, err := f.Inspect(ctx, path)
	if err != nil {
		log.WithField("stemPath", path).WithError(err).Warn("Silence check failed, keeping stem")
		return false
	}

	return decision.Silent
}
