package pipeline

import (
	"sync"

	"github.com/apex/log"
)

type Stage string

const (
	StageInit               Stage = "init"
	StageTranscribeOriginal Stage = "transcribe_original"
	StageSeparate           Stage = "separate"
	StageClassify           Stage = "classify"
	StageFilterStems        Stage = "filter_stems"
	StageTranscribeStems    Stage = "transcribe_stems"
	StageAggregate          Stage = "aggregate"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

const (
	EventStart       = "start"
	EventEnd         = "end"
	EventTruncated   = "truncated"
	EventSilent      = "stem_silent"
	EventKept        = "stem_kept"
	EventTranscribed = "track_transcribed"
	EventFailed      = "track_failed"
	EventAborted     = "aborted"
)

// Tracer receives the diagnostic events of a run
type Tracer interface {
	Event(stage Stage, event string, fields log.Fields)
}

var _ Tracer = LogTracer{}

type LogTracer struct {
	logger log.Interface
}

func NewLogTracer(logger log.Interface) LogTracer {
	if logger == nil {
		logger = log.Log
	}

	return LogTracer{
		logger: logger,
	}
}

func (l LogTracer) Event(stage Stage, event string, fields log.Fields) {
	entry := l.logger.WithFields(fields).WithField("stage", string(stage))

	switch event {
	case EventFailed, EventAborted:
		entry.Warn(event)
	default:
		entry.Info(event)
	}
}

type TraceEvent struct {
	Stage  Stage
	Event  string
	Fields log.Fields
}

var _ Tracer = &RecordingTracer{}

// RecordingTracer keeps every event in memory
type RecordingTracer struct {
	mutex  sync.Mutex
	events []TraceEvent
}

func NewRecordingTracer() *RecordingTracer {
	return &RecordingTracer{}
}

func (r *RecordingTracer) Event(stage Stage, event string, fields log.Fields) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.events = append(r.events, TraceEvent{Stage: stage, Event: event, Fields: fields})
}

func (r *RecordingTracer) Events() []TraceEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	events := make([]TraceEvent, len(r.events))
	copy(events, r.events)
	return events
}

func (r *RecordingTracer) Find(stage Stage, event string) []TraceEvent {
	found := []TraceEvent{}
	for _, e := range r.Events() {
		if e.Stage == stage && e.Event == event {
			found = append(found, e)
		}
	}

	return found
}

// Stages lists stages in the order they first appeared
func (r *RecordingTracer) Stages() []Stage {
	seen := map[Stage]bool{}
	stages := []Stage{}
	for _, e := range r.Events() {
		if !seen[e.Stage] {
			seen[e.Stage] = true
			stages = append(stages, e.Stage)
		}
	}

	return stages
}
