package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/separation"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	"golang.org/x/sync/errgroup"
)

const (
	OriginalStem = "original"
	FullStem     = "full"

	// the residual stem holds whatever the separator couldn't place, so
	// it isn't named after an instrument
	ResidualStem       = "other"
	TranscribedLabel   = "transcribed"
	DefaultMaxDuration = 300.0
	DefaultStemWorkers = 1
	midiExtension      = ".mid"
)

type Transcriber interface {
	Transcribe(ctx context.Context, request transcription.Request) transcription.Result
}

type SilenceChecker interface {
	IsSilent(ctx context.Context, path string) bool
}

type InstrumentClassifier interface {
	Classify(ctx context.Context, path string) string
}

type Request struct {
	InputPath     string
	OutputDir     string
	UseSeparation bool
	// MaxDuration in seconds, 0 for the default
	MaxDuration float64
}

type Options struct {
	Params transcription.Params
	// StemWorkers bounds how many stems are transcribed at once
	StemWorkers int
}

type Orchestrator struct {
	transcriber Transcriber
	separator   separation.Separator
	silence     SilenceChecker
	classifier  InstrumentClassifier
	tracer      Tracer
	options     Options
}

func NewOrchestrator(
	transcriber Transcriber,
	separator separation.Separator,
	silence SilenceChecker,
	classifier InstrumentClassifier,
	tracer Tracer,
	options Options,
) Orchestrator {
	if tracer == nil {
		tracer = NewLogTracer(nil)
	}

	if separator == nil {
		separator = separation.Unavailable{Reason: "no separator configured"}
	}

	if options.StemWorkers < 1 {
		options.StemWorkers = DefaultStemWorkers
	}

	return Orchestrator{
		transcriber: transcriber,
		separator:   separator,
		silence:     silence,
		classifier:  classifier,
		tracer:      tracer,
		options:     options,
	}
}

// InstrumentFor maps a stem name to the label reported on its track
func InstrumentFor(stem string) string {
	if stem == ResidualStem {
		return TranscribedLabel
	}

	return stem
}

// Process runs the whole pipeline. It always returns a well formed result:
// fatal failures come back as a failed result with no tracks.
func (o Orchestrator) Process(ctx context.Context, request Request) (result transcriptionentity.ProcessingResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err := errors.Newf("Processing panicked: %v", recovered)
			result = o.abort(StageFailed, err)
		}
	}()

	if request.MaxDuration <= 0 {
		request.MaxDuration = DefaultMaxDuration
	}

	o.tracer.Event(StageInit, EventStart, log.Fields{
		"inputPath":     request.InputPath,
		"outputDir":     request.OutputDir,
		"useSeparation": request.UseSeparation,
		"maxDuration":   request.MaxDuration,
	})

	if err := o.prepare(request); err != nil {
		return o.abort(StageInit, err)
	}
	o.tracer.Event(StageInit, EventEnd, nil)

	original := o.transcribeOriginal(ctx, request)

	var stems []Outcome
	if request.UseSeparation {
		var err error
		stems, err = o.separateAndTranscribe(ctx, request)
		if err != nil {
			return o.abort(StageSeparate, err)
		}
	} else {
		stems = []Outcome{o.transcribeFullMix(ctx, request)}
	}

	o.tracer.Event(StageAggregate, EventStart, nil)
	result = Aggregate(&original, stems)
	o.tracer.Event(StageAggregate, EventEnd, log.Fields{"trackCount": len(result.Tracks)})

	o.tracer.Event(StageDone, EventEnd, log.Fields{"success": result.Success})
	return result
}

func (o Orchestrator) prepare(request Request) error {
	errctx := cerr.Field("input_path", request.InputPath).Field("output_dir", request.OutputDir)

	info, err := os.Stat(request.InputPath)
	if err != nil {
		return errors.Mark(errctx.Wrap(err).Error("Input file not found"), perr.InputNotFound)
	}

	if info.IsDir() {
		return errors.Mark(errctx.Error("Input path is a directory"), perr.InputNotFound)
	}

	if err := os.MkdirAll(request.OutputDir, os.ModePerm); err != nil {
		return errors.Mark(errctx.Wrap(err).Error("Failed to create output directory"), perr.OutputDirUnusable)
	}

	return nil
}

func (o Orchestrator) abort(stage Stage, err error) transcriptionentity.ProcessingResult {
	cerr.Log(err)
	o.tracer.Event(stage, EventAborted, log.Fields{
		"error": err.Error(),
		"fatal": perr.IsFatal(err),
	})
	o.tracer.Event(StageFailed, EventEnd, nil)

	return transcriptionentity.FailedResult(err.Error())
}

func (o Orchestrator) transcribeOriginal(ctx context.Context, request Request) Outcome {
	o.tracer.Event(StageTranscribeOriginal, EventStart, nil)

	outcome := o.transcribe(ctx, request, StageTranscribeOriginal, OriginalStem, TranscribedLabel, request.InputPath)
	if outcome.Result.Truncated {
		o.tracer.Event(StageTranscribeOriginal, EventTruncated, log.Fields{"maxDuration": request.MaxDuration})
	}

	o.tracer.Event(StageTranscribeOriginal, EventEnd, nil)
	return outcome
}

func (o Orchestrator) transcribeFullMix(ctx context.Context, request Request) Outcome {
	o.tracer.Event(StageClassify, EventStart, nil)
	instrument := o.classifier.Classify(ctx, request.InputPath)
	o.tracer.Event(StageClassify, EventEnd, log.Fields{"instrument": instrument})

	o.tracer.Event(StageTranscribeStems, EventStart, log.Fields{"stemCount": 1})
	outcome := o.transcribe(ctx, request, StageTranscribeStems, FullStem, instrument, request.InputPath)
	o.tracer.Event(StageTranscribeStems, EventEnd, nil)

	return outcome
}

func (o Orchestrator) separateAndTranscribe(ctx context.Context, request Request) ([]Outcome, error) {
	o.tracer.Event(StageSeparate, EventStart, log.Fields{"available": separation.IsAvailable(o.separator)})

	stems, err := o.separator.Separate(ctx, request.InputPath, request.OutputDir, request.MaxDuration)
	if err != nil {
		return nil, err
	}

	o.tracer.Event(StageSeparate, EventEnd, log.Fields{"stemCount": len(stems)})

	audible := o.filterStems(ctx, stems)
	return o.transcribeStems(ctx, request, audible), nil
}

func (o Orchestrator) filterStems(ctx context.Context, stems []separation.Stem) []separation.Stem {
	o.tracer.Event(StageFilterStems, EventStart, nil)

	audible := []separation.Stem{}
	for _, stem := range stems {
		fields := log.Fields{"stem": stem.Name, "stemPath": stem.Path}

		if o.silence.IsSilent(ctx, stem.Path) {
			o.tracer.Event(StageFilterStems, EventSilent, fields)
			continue
		}

		o.tracer.Event(StageFilterStems, EventKept, fields)
		audible = append(audible, stem)
	}

	o.tracer.Event(StageFilterStems, EventEnd, log.Fields{"keptCount": len(audible)})
	return audible
}

// transcribeStems may run stems concurrently, the outcomes keep the order
// of the stems passed in
func (o Orchestrator) transcribeStems(ctx context.Context, request Request, stems []separation.Stem) []Outcome {
	o.tracer.Event(StageTranscribeStems, EventStart, log.Fields{
		"stemCount": len(stems),
		"workers":   o.options.StemWorkers,
	})

	outcomes := make([]Outcome, len(stems))

	group := errgroup.Group{}
	group.SetLimit(o.options.StemWorkers)

	for i, stem := range stems {
		i, stem := i, stem
		group.Go(func() error {
			outcomes[i] = o.transcribe(ctx, request, StageTranscribeStems, stem.Name, InstrumentFor(stem.Name), stem.Path)
			return nil
		})
	}

	// tracks fail individually, nothing is returned through the group
	_ = group.Wait()

	o.tracer.Event(StageTranscribeStems, EventEnd, nil)
	return outcomes
}

func (o Orchestrator) transcribe(ctx context.Context, request Request, stage Stage, stem string, instrument string, audioPath string) (outcome Outcome) {
	outcome = Outcome{Stem: stem, AudioPath: audioPath}

	defer func() {
		if recovered := recover(); recovered != nil {
			err := errors.Mark(errors.Newf("Transcription of stem %s panicked: %v", stem, recovered), perr.TranscriptionFailed)
			outcome.Result = transcription.Result{Success: false, Instrument: instrument, Err: err}
			o.tracer.Event(stage, EventFailed, log.Fields{"stem": stem, "error": err.Error()})
		}
	}()

	outcome.Result = o.transcriber.Transcribe(ctx, transcription.Request{
		AudioPath:   audioPath,
		MIDIPath:    filepath.Join(request.OutputDir, stem+midiExtension),
		Instrument:  instrument,
		Params:      o.options.Params,
		MaxDuration: request.MaxDuration,
	})

	if !outcome.Result.Success {
		o.tracer.Event(stage, EventFailed, log.Fields{
			"stem":       stem,
			"instrument": instrument,
			"error":      outcome.Result.ErrorMessage(),
		})
		return outcome
	}

	o.tracer.Event(stage, EventTranscribed, log.Fields{
		"stem":       stem,
		"instrument": outcome.Result.Instrument,
		"noteCount":  len(outcome.Result.Notes),
	})

	return outcome
}
