package separation

import "context"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Model is a source separation engine with a fixed stem vocabulary.
// Separate receives a stereo WAV at SampleRate and writes one
// <outputDir>/<stem>.wav per declared stem.
//
//counterfeiter:generate . Model
type Model interface {
	Name() string
	SampleRate() int
	StemNames() []string
	Separate(ctx context.Context, inputPath string, outputDir string) (map[string]string, error)
}
