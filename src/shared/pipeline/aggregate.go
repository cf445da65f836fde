package pipeline

import (
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

// Outcome is one attempted track on its way to aggregation
type Outcome struct {
	Stem      string
	AudioPath string
	Result    transcription.Result
}

func (o Outcome) track() transcriptionentity.Track {
	return transcriptionentity.NewTrack(o.Stem, o.Result.Instrument, o.AudioPath, o.Result.MIDIPath, o.Result.Notes)
}

// Aggregate keeps the successful outcomes, original first and the rest in
// the order given
func Aggregate(original *Outcome, stems []Outcome) transcriptionentity.ProcessingResult {
	tracks := []transcriptionentity.Track{}

	if original != nil && original.Result.Success {
		tracks = append(tracks, original.track())
	}

	for _, stem := range stems {
		if stem.Result.Success {
			tracks = append(tracks, stem.track())
		}
	}

	return transcriptionentity.CompletedResult(tracks)
}
