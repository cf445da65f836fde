package dummy

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

var NetworkFailure = errors.New("Dummy network failure")

var _ transcriptionentity.JobStore = &JobStore{}

func NewDummyJobStore() *JobStore {
	return &JobStore{
		Unavailable: false,
		State:       make(map[string]transcriptionentity.Job),
	}
}

type JobStore struct {
	Unavailable bool
	State       map[string]transcriptionentity.Job
	mutex       sync.RWMutex
}

func (j *JobStore) GetJob(_ context.Context, jobID string) (transcriptionentity.Job, error) {
	if j.Unavailable {
		return transcriptionentity.Job{}, NetworkFailure
	}

	j.mutex.RLock()
	defer j.mutex.RUnlock()

	job, ok := j.State[jobID]
	if !ok {
		return transcriptionentity.Job{}, cerr.Field("job_id", jobID).
			Wrap(transcriptionentity.ErrJobNotFound).Error("Job is not found")
	}

	return job, nil
}

func (j *JobStore) PutJob(_ context.Context, job transcriptionentity.Job) error {
	if j.Unavailable {
		return NetworkFailure
	}

	if job.ID == "" {
		return cerr.Error("Job ID is not defined")
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.State[job.ID] = job
	return nil
}

func (j *JobStore) UpdateJob(ctx context.Context, jobID string, updater transcriptionentity.JobUpdater) error {
	if j.Unavailable {
		return NetworkFailure
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	job, ok := j.State[jobID]
	if !ok {
		return cerr.Field("job_id", jobID).
			Wrap(transcriptionentity.ErrJobNotFound).Error("Job is not found")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return cerr.Wrap(err).Error("Updater failed")
	}

	if updatedJob.ID != jobID {
		return cerr.Field("updated_id", updatedJob.ID).Error("Job update function changed the job ID")
	}

	j.State[jobID] = updatedJob
	return nil
}
