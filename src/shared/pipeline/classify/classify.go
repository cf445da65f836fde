package classify

import (
	"context"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
)

const (
	Brass   = "brass"
	Strings = "strings"
	Guitar  = "guitar"
	Piano   = "piano"
	Synth   = "synth"
	Other   = "other"
)

const (
	Window             = 3.0
	AnalysisSampleRate = 22050

	BrightCentroid   = 3000.0
	SmoothZCR        = 0.10
	BrassRolloff     = 5000.0
	NoisyZCR         = 0.15
	PianoCentroidLow = 1000.0
	PianoCentroidHi  = 2500.0
)

// Label applies the thresholds in order, first match wins
func Label(features Features) string {
	switch {
	case features.Centroid > BrightCentroid && features.ZeroCrossingRate < SmoothZCR:
		if features.Rolloff > BrassRolloff {
			return Brass
		}
		return Strings
	case features.ZeroCrossingRate > NoisyZCR:
		return Guitar
	case features.Centroid > PianoCentroidLow && features.Centroid < PianoCentroidHi:
		return Piano
	default:
		return Synth
	}
}

type Classifier struct {
	loader audio.Loader
}

func NewClassifier(loader audio.Loader) Classifier {
	return Classifier{
		loader: loader,
	}
}

// Features analyses the first Window seconds of the file. The error is
// marked ClassificationError.
func (c Classifier) Features(ctx context.Context, path string) (Features, error) {
	errctx := cerr.Field("audio_path", path)

	buffer, err := c.loader.Load(ctx, path, audio.LoadOptions{
		SampleRate:  AnalysisSampleRate,
		Channels:    1,
		MaxDuration: Window,
	})
	if err != nil {
		return Features{}, errors.Mark(errctx.Wrap(err).Error("Failed to load audio for classification"), perr.ClassificationError)
	}

	buffer = buffer.Head(Window)

	features, err := Extract(buffer.Mono(), buffer.SampleRate)
	if err != nil {
		return Features{}, errors.Mark(errctx.Wrap(err).Error("Failed to extract spectral features"), perr.ClassificationError)
	}

	return features, nil
}

// Classify never fails, anything that goes wrong yields Other
func (c Classifier) Classify(ctx context.Context, path string) string {
	logger := log.WithField("audioPath", path)

	features, err := c.Features(ctx, path)
	if err != nil {
		logger.WithError(err).Warn("Instrument classification failed")
		return Other
	}

	label := Label(features)
	logger.WithFields(log.Fields{
		"centroid":         features.Centroid,
		"rolloff":          features.Rolloff,
		"zeroCrossingRate": features.ZeroCrossingRate,
		"label":            label,
	}).Info("Classified instrument")

	return label
}
