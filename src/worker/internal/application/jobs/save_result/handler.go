package save_result

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_message"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "save_result"
const ErrorMessage string = "Failed to save the transcription result"

const NoTracksMessage = "No tracks were transcribed"

type JobParams struct {
	job_message.JobIdentifier
	Result transcriptionentity.ProcessingResult `json:"result"`
}

//counterfeiter:generate . SaveResultJobHandler
type SaveResultJobHandler interface {
	HandleSaveResultJob(ctx context.Context, message []byte) error
}

var _ SaveResultJobHandler = JobHandler{}

func NewJobHandler(jobStore transcriptionentity.JobStore) JobHandler {
	return JobHandler{
		jobStore: jobStore,
	}
}

type JobHandler struct {
	jobStore transcriptionentity.JobStore
}

func (s JobHandler) HandleSaveResultJob(ctx context.Context, message []byte) error {
	params := JobParams{}
	if err := json.Unmarshal(message, &params); err != nil {
		return cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if params.JobID == "" {
		return cerr.Error("Missing job ID")
	}

	errctx := cerr.Field("job_id", params.JobID)

	updater := func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
		result := params.Result
		if result.Tracks == nil {
			result.Tracks = []transcriptionentity.Track{}
		}

		job.Result = &result

		if result.Success {
			job.Status = transcriptionentity.CompletedStatus
			job.StatusMessage = ""
			return job, nil
		}

		job.Status = transcriptionentity.ErrorStatus
		job.StatusMessage = result.ErrorMessage()
		if job.StatusMessage == "" {
			job.StatusMessage = NoTracksMessage
		}

		return job, nil
	}

	if err := s.jobStore.UpdateJob(ctx, params.JobID, updater); err != nil {
		return errctx.Wrap(err).Error("Failed to save the result")
	}

	log.WithFields(log.Fields{
		"job_id":     params.JobID,
		"success":    params.Result.Success,
		"trackCount": len(params.Result.Tracks),
	}).Info("Saved transcription result")

	return nil
}
