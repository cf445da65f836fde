package dummy

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

// Processor stands in for the pipeline: it writes one MIDI file per stem
// whose contents are the input bytes followed by the stem name
type Processor struct {
	Stems   []string
	FailAll bool

	mutex    sync.Mutex
	requests []pipeline.Request
}

func NewDummyProcessor(stems ...string) *Processor {
	return &Processor{Stems: stems}
}

func (p *Processor) Requests() []pipeline.Request {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]pipeline.Request(nil), p.requests...)
}

func (p *Processor) Process(_ context.Context, request pipeline.Request) transcriptionentity.ProcessingResult {
	p.mutex.Lock()
	p.requests = append(p.requests, request)
	p.mutex.Unlock()

	input, err := os.ReadFile(request.InputPath)
	if err != nil {
		return transcriptionentity.FailedResult(err.Error())
	}

	if p.FailAll {
		return transcriptionentity.CompletedResult(nil)
	}

	if err := os.MkdirAll(request.OutputDir, os.ModePerm); err != nil {
		return transcriptionentity.FailedResult(err.Error())
	}

	tracks := []transcriptionentity.Track{}
	for _, stem := range p.Stems {
		midiPath := filepath.Join(request.OutputDir, stem+".mid")
		if err := os.WriteFile(midiPath, append(append([]byte(nil), input...), []byte("-"+stem)...), 0644); err != nil {
			return transcriptionentity.FailedResult(err.Error())
		}

		notes := []transcriptionentity.Note{{Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.8}}
		tracks = append(tracks, transcriptionentity.NewTrack(stem, pipeline.InstrumentFor(stem), request.InputPath, midiPath, notes))
	}

	return transcriptionentity.CompletedResult(tracks)
}
