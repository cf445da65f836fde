package transcriptionentity

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("Job is not found")

type JobStatus string

const (
	RequestedStatus  JobStatus = "requested"
	ProcessingStatus JobStatus = "processing"
	CompletedStatus  JobStatus = "completed"
	ErrorStatus      JobStatus = "error"
)

const DefaultMaxDuration = 300.0

type Job struct {
	ID             string            `json:"id" dynamo:"id,hash"`
	InputURL       string            `json:"input_url" dynamo:"input_url"`
	UseSeparation  bool              `json:"use_separation" dynamo:"use_separation"`
	MaxDuration    float64           `json:"max_duration" dynamo:"max_duration"`
	Status         JobStatus         `json:"job_status" dynamo:"job_status"`
	StatusMessage  string            `json:"job_status_message" dynamo:"job_status_message"`
	StatusDebugLog string            `json:"job_status_debug_log" dynamo:"job_status_debug_log"`
	Result         *ProcessingResult `json:"result" dynamo:"result,omitempty"`
	CreatedAt      time.Time         `json:"created_at" dynamo:"created_at"`
}

func NewJob(inputURL string, useSeparation bool, maxDuration float64) Job {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	return Job{
		ID:            uuid.New().String(),
		InputURL:      inputURL,
		UseSeparation: useSeparation,
		MaxDuration:   maxDuration,
		Status:        RequestedStatus,
		CreatedAt:     time.Now().UTC(),
	}
}

type JobUpdater func(job Job) (Job, error)

type JobStore interface {
	GetJob(ctx context.Context, jobID string) (Job, error)
	PutJob(ctx context.Context, job Job) error
	UpdateJob(ctx context.Context, jobID string, updater JobUpdater) error
}
