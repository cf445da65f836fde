package jobusecase

import (
	"context"
	"net/url"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

// StartJobType is the first message of the worker's job chain
const StartJobType = "start_job"

type startJobParams struct {
	JobID string `json:"job_id"`
}

type CreateJobRequest struct {
	InputURL      string  `json:"input_url"`
	UseSeparation bool    `json:"use_separation"`
	MaxDuration   float64 `json:"max_duration"`
}

func NewUsecase(jobStore transcriptionentity.JobStore, publisher rabbitmq.Publisher) Usecase {
	return Usecase{
		jobStore:  jobStore,
		publisher: publisher,
	}
}

type Usecase struct {
	jobStore  transcriptionentity.JobStore
	publisher rabbitmq.Publisher
}

func (u Usecase) CreateJob(ctx context.Context, createRequest CreateJobRequest) (transcriptionentity.Job, *api.Error) {
	errctx := cerr.Field("input_url", createRequest.InputURL)

	if apiErr := validate(createRequest); apiErr != nil {
		return transcriptionentity.Job{}, apiErr
	}

	job := transcriptionentity.NewJob(createRequest.InputURL, createRequest.UseSeparation, createRequest.MaxDuration)

	if err := u.jobStore.PutJob(ctx, job); err != nil {
		return transcriptionentity.Job{}, api.CommitError(errctx.Wrap(err).Error("Failed to create job"),
			api.DefaultErrorCode,
			"Failed to create the transcription job, please try again")
	}

	message, err := rabbitmq.JSONMessage(StartJobType, startJobParams{JobID: job.ID})
	if err == nil {
		err = u.publisher.Publish(ctx, message)
	}

	if err != nil {
		err = errctx.Field("job_id", job.ID).Wrap(err).Error("Failed to publish start job")
		u.markUnqueued(ctx, job.ID, err)

		return transcriptionentity.Job{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to queue the transcription job, please try again")
	}

	log.WithFields(log.Fields{
		"job_id":    job.ID,
		"input_url": job.InputURL,
	}).Info("Created transcription job")

	return job, nil
}

func (u Usecase) GetJob(ctx context.Context, jobID string) (transcriptionentity.Job, *api.Error) {
	job, err := u.jobStore.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, transcriptionentity.ErrJobNotFound) {
			return transcriptionentity.Job{}, api.CommitError(err,
				joberrors.JobNotFoundCode,
				"The transcription job doesn't exist")
		}

		return transcriptionentity.Job{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Failed to get the transcription job, please try again")
	}

	return job, nil
}

// markUnqueued leaves an errored record behind rather than one stuck in
// requested status forever
func (u Usecase) markUnqueued(ctx context.Context, jobID string, cause error) {
	updater := func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
		job.Status = transcriptionentity.ErrorStatus
		job.StatusMessage = "Failed to queue the transcription job"
		job.StatusDebugLog = cause.Error()
		return job, nil
	}

	if err := u.jobStore.UpdateJob(ctx, jobID, updater); err != nil {
		log.WithError(err).WithField("job_id", jobID).Error("Failed to mark unqueued job")
	}
}

func validate(createRequest CreateJobRequest) *api.Error {
	errctx := cerr.Field("input_url", createRequest.InputURL)

	parsed, err := url.Parse(createRequest.InputURL)
	if err != nil || createRequest.InputURL == "" || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		if err == nil {
			err = errctx.Error("Input URL must be an absolute http(s) URL")
		}

		return api.CommitError(err, joberrors.BadJobDataCode, "The input URL must be an http or https URL")
	}

	if createRequest.MaxDuration < 0 {
		return api.CommitError(errctx.Field("max_duration", createRequest.MaxDuration).Error("Negative max duration"),
			joberrors.BadJobDataCode,
			"The max duration must be a positive number of seconds")
	}

	return nil
}
