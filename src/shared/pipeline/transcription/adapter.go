package transcription

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/midifile"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

const (
	// basic-pitch analyses at this rate, decoding straight to it saves a
	// resample inside the model
	ModelSampleRate    = 22050
	DefaultMaxDuration = 300.0

	// seconds read past the cap to tell a longer source from an exact fit
	capLookahead = 0.05
)

type Request struct {
	AudioPath   string
	MIDIPath    string
	Instrument  string
	Params      Params
	MaxDuration float64
}

// Result is the outcome for one track. A failed Result is an ordinary
// value, not an error: a track failing never stops a run.
type Result struct {
	Success    bool
	Instrument string
	MIDIPath   string
	Notes      []transcriptionentity.Note
	// Truncated is set when the source ran past the duration cap
	Truncated bool
	Err       error
}

func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}

// EndTime is where the last note stops
func (r Result) EndTime() float64 {
	end := 0.0
	for _, note := range r.Notes {
		end = math.Max(end, note.Start+note.Duration)
	}

	return end
}

type Adapter struct {
	model      Model
	loader     audio.Loader
	scratchDir string
}

func NewAdapter(model Model, loader audio.Loader, scratchDir string) Adapter {
	return Adapter{
		model:      model,
		loader:     loader,
		scratchDir: scratchDir,
	}
}

func (a Adapter) Transcribe(ctx context.Context, request Request) (result Result) {
	logger := log.WithFields(log.Fields{
		"audioPath":  request.AudioPath,
		"midiPath":   request.MIDIPath,
		"instrument": request.Instrument,
	})

	fail := func(err error) Result {
		err = errors.Mark(err, perr.TranscriptionFailed)
		logger.WithError(err).Warn("Transcription failed")
		return Result{
			Success:    false,
			Instrument: request.Instrument,
			Err:        err,
		}
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = fail(errors.Newf("Transcription panicked: %v", recovered))
		}
	}()

	logger.Info("Transcribing audio")

	notes, truncated, err := a.transcribe(ctx, request)
	if err != nil {
		return fail(err)
	}

	logger.WithField("noteCount", len(notes)).Info("Finished transcribing audio")

	return Result{
		Success:    true,
		Instrument: request.Instrument,
		MIDIPath:   request.MIDIPath,
		Notes:      notes,
		Truncated:  truncated,
	}
}

func (a Adapter) transcribe(ctx context.Context, request Request) ([]transcriptionentity.Note, bool, error) {
	errctx := cerr.Fields(cerr.F{
		"audio_path": request.AudioPath,
		"midi_path":  request.MIDIPath,
	})

	if err := request.Params.Validate(); err != nil {
		return nil, false, errctx.Wrap(err).Error("Invalid transcription parameters")
	}

	maxDuration := request.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	buffer, err := a.loader.Load(ctx, request.AudioPath, audio.LoadOptions{
		SampleRate:  ModelSampleRate,
		Channels:    1,
		MaxDuration: maxDuration + capLookahead,
	})
	if err != nil {
		return nil, false, errctx.Wrap(err).Error("Failed to load audio")
	}

	// anything decoded past one model frame beyond the cap was cut off
	truncated := buffer.Duration() > maxDuration+1.0/float64(ModelSampleRate)
	buffer = buffer.Head(maxDuration)

	scratchDir, err := os.MkdirTemp(a.scratchDir, "transcribe-*")
	if err != nil {
		return nil, false, errctx.Wrap(err).Error("Failed to create scratch dir")
	}
	defer os.RemoveAll(scratchDir)

	modelInputPath := filepath.Join(scratchDir, "source.wav")
	if err := audio.WriteWAV(modelInputPath, buffer); err != nil {
		return nil, false, errctx.Wrap(err).Error("Failed to write model input")
	}

	output, err := a.model.Transcribe(ctx, modelInputPath, request.Params)
	if err != nil {
		return nil, false, errctx.Wrap(err).Error("Pitch detection model failed")
	}

	events := output.Events
	midiBytes := output.MIDI

	switch {
	case len(midiBytes) == 0:
		midiBytes, err = midifile.Encode(events)
		if err != nil {
			return nil, false, errctx.Wrap(err).Error("Failed to encode MIDI from note events")
		}
	case events == nil:
		events, err = midifile.Decode(midiBytes)
		if err != nil {
			return nil, false, errctx.Wrap(err).Error("Failed to decode note events from model MIDI")
		}
	}

	if err := os.WriteFile(request.MIDIPath, midiBytes, 0644); err != nil {
		return nil, false, errctx.Wrap(err).Error("Failed to write MIDI file")
	}

	return toNotes(events), truncated, nil
}

// toNotes keeps detection order and drops events that can't be a Note
func toNotes(events []midifile.NoteEvent) []transcriptionentity.Note {
	notes := make([]transcriptionentity.Note, 0, len(events))
	for _, event := range events {
		velocity := event.Amplitude
		if math.IsNaN(velocity) {
			velocity = 0
		}

		note := transcriptionentity.Note{
			Pitch:    event.Pitch,
			Start:    math.Max(0, event.Start),
			Duration: event.End - math.Max(0, event.Start),
			Velocity: math.Max(0, math.Min(1, velocity)),
		}

		if !note.Valid() {
			log.WithField("event", fmt.Sprintf("%+v", event)).Debug("Dropping invalid note event")
			continue
		}

		notes = append(notes, note)
	}

	return notes
}
