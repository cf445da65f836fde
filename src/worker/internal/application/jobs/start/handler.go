package start

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_message"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "start_job"
const ErrorMessage string = "Failed to start processing the transcription job"

//counterfeiter:generate . StartJobHandler
type StartJobHandler interface {
	HandleStartJob(ctx context.Context, message []byte) (JobParams, error)
}

type JobParams struct {
	job_message.JobIdentifier
}

var _ StartJobHandler = JobHandler{}

func NewJobHandler(jobStore transcriptionentity.JobStore) JobHandler {
	return JobHandler{
		jobStore: jobStore,
	}
}

type JobHandler struct {
	jobStore transcriptionentity.JobStore
}

func (j JobHandler) HandleStartJob(ctx context.Context, message []byte) (JobParams, error) {
	params, err := unmarshalMessage(message)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_id", params.JobID)

	updater := func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
		if job.Status != transcriptionentity.RequestedStatus {
			return transcriptionentity.Job{}, errctx.Field("job_status", job.Status).
				Error("Job is not in requested status, abort processing to be safe")
		}

		job.Status = transcriptionentity.ProcessingStatus
		return job, nil
	}

	err = j.jobStore.UpdateJob(ctx, params.JobID, updater)
	if err != nil {
		return JobParams{}, errctx.Wrap(err).Error("Failed to set the job status")
	}

	log.WithField("job_id", params.JobID).Info("Job moved to processing")
	return params, nil
}

func unmarshalMessage(message []byte) (JobParams, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if params.JobID == "" {
		return JobParams{}, cerr.Field("job_params", params).Error("Missing job ID")
	}

	return params, nil
}
