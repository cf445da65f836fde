package transcriptionstorage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	dynamolib "github.com/veedubyou/chord-paper-transcriber/src/shared/lib/dynamo"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

const (
	JobsTable = "TranscriptionJobs"
	idKey     = "id"
)

var _ transcriptionentity.JobStore = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) EnsureTable() error {
	return d.dynamoDB.EnsureTable(JobsTable, transcriptionentity.Job{})
}

func (d DB) GetJob(ctx context.Context, jobID string) (transcriptionentity.Job, error) {
	errctx := cerr.Field("job_id", jobID)

	job := transcriptionentity.Job{}
	err := d.dynamoDB.Table(JobsTable).
		Get(idKey, jobID).
		OneWithContext(ctx, &job)

	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return transcriptionentity.Job{},
				errctx.Wrap(errors.Mark(err, transcriptionentity.ErrJobNotFound)).Error("Job is not found")
		}

		return transcriptionentity.Job{}, errctx.Wrap(err).Error("Failed to fetch job")
	}

	return job, nil
}

func (d DB) PutJob(ctx context.Context, job transcriptionentity.Job) error {
	if job.ID == "" {
		return cerr.Error("Job ID is not defined")
	}

	err := d.dynamoDB.Table(JobsTable).Put(job).RunWithContext(ctx)
	if err != nil {
		return cerr.Field("job_id", job.ID).Wrap(err).Error("Failed to put the job in the DB")
	}

	return nil
}

func (d DB) UpdateJob(ctx context.Context, jobID string, updater transcriptionentity.JobUpdater) error {
	errctx := cerr.Field("job_id", jobID)

	job, err := d.GetJob(ctx, jobID)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to get job for update")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return errctx.Wrap(err).Error("Job update function failed")
	}

	if updatedJob.ID != jobID {
		return errctx.Field("updated_id", updatedJob.ID).Error("Job update function changed the job ID")
	}

	err = d.dynamoDB.Table(JobsTable).
		Put(updatedJob).
		If("attribute_exists($)", idKey).
		RunWithContext(ctx)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to write the updated job")
	}

	return nil
}
