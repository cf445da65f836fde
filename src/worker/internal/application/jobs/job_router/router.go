package job_router

import (
	"context"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/save_result"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/start"
)

func NewJobRouter(
	jobStore transcriptionentity.JobStore,
	publisher rabbitmq.Publisher,
	startHandler start.StartJobHandler,
	processHandler process.ProcessJobHandler,
	saveResultHandler save_result.SaveResultJobHandler,
) JobRouter {
	return JobRouter{
		jobStore:          jobStore,
		publisher:         publisher,
		startHandler:      startHandler,
		processHandler:    processHandler,
		saveResultHandler: saveResultHandler,
	}
}

// JobRouter dispatches a delivery to its handler by message type and
// enqueues the follow up job
type JobRouter struct {
	jobStore          transcriptionentity.JobStore
	publisher         rabbitmq.Publisher
	startHandler      start.StartJobHandler
	processHandler    process.ProcessJobHandler
	saveResultHandler save_result.SaveResultJobHandler
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	ctx := context.Background()

	switch message.Type {
	case start.JobType:
		return j.handleStartJob(ctx, message)
	case process.JobType:
		return j.handleProcessJob(ctx, message)
	case save_result.JobType:
		return j.handleSaveResultJob(ctx, message)
	default:
		return cerr.Field("message_type", message.Type).Error("Unrecognized job type")
	}
}

func (j JobRouter) handleStartJob(ctx context.Context, message amqp091.Delivery) error {
	params, err := j.startHandler.HandleStartJob(ctx, message.Body)
	if err != nil {
		return j.handleError(ctx, message, start.ErrorMessage, err)
	}

	nextMessage, err := rabbitmq.JSONMessage(process.JobType, process.JobParams{
		JobIdentifier: params.JobIdentifier,
	})
	if err != nil {
		return j.handleError(ctx, message, start.ErrorMessage, err)
	}

	if err := j.publisher.Publish(ctx, nextMessage); err != nil {
		return j.handleError(ctx, message, start.ErrorMessage, cerr.Wrap(err).Error("Failed to publish process job"))
	}

	return nil
}

func (j JobRouter) handleProcessJob(ctx context.Context, message amqp091.Delivery) error {
	params, result, err := j.processHandler.HandleProcessJob(ctx, message.Body)
	if err != nil {
		return j.handleError(ctx, message, process.ErrorMessage, err)
	}

	nextMessage, err := rabbitmq.JSONMessage(save_result.JobType, save_result.JobParams{
		JobIdentifier: params.JobIdentifier,
		Result:        result,
	})
	if err != nil {
		return j.handleError(ctx, message, process.ErrorMessage, err)
	}

	if err := j.publisher.Publish(ctx, nextMessage); err != nil {
		return j.handleError(ctx, message, process.ErrorMessage, cerr.Wrap(err).Error("Failed to publish save result job"))
	}

	return nil
}

func (j JobRouter) handleSaveResultJob(ctx context.Context, message amqp091.Delivery) error {
	if err := j.saveResultHandler.HandleSaveResultJob(ctx, message.Body); err != nil {
		return j.handleError(ctx, message, save_result.ErrorMessage, err)
	}

	return nil
}

// handleError records the failure on the job so clients polling it see why
// it stopped. The original error is always returned.
func (j JobRouter) handleError(ctx context.Context, message amqp091.Delivery, errorMessage string, err error) error {
	identifier, parseErr := job_message.ParseJobIdentifier(message.Body)
	if parseErr != nil {
		log.WithError(parseErr).Error("Can't identify the job of a failed message, not updating its status")
		return err
	}

	logger := log.WithField("job_id", identifier.JobID)

	updater := func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
		job.Status = transcriptionentity.ErrorStatus
		job.StatusMessage = errorMessage
		job.StatusDebugLog = err.Error()
		return job, nil
	}

	if updateErr := j.jobStore.UpdateJob(ctx, identifier.JobID, updater); updateErr != nil {
		logger.WithError(updateErr).Error("Failed to mark the job as errored")
		return err
	}

	logger.WithField("status_message", errorMessage).Info("Marked the job as errored")
	return err
}
