package transcription

import (
	"context"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/midifile"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Output is what a pitch detector returns. Either part may be empty, the
// adapter derives the missing one from the other.
type Output struct {
	MIDI   []byte
	Events []midifile.NoteEvent
}

//counterfeiter:generate . Model
type Model interface {
	Transcribe(ctx context.Context, audioPath string, params Params) (Output, error)
}
