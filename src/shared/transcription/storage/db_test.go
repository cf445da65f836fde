package transcriptionstorage_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/veedubyou/chord-paper-transcriber/src/shared/testing"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	transcriptionstorage "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/storage"
)

var _ = Describe("Job DB", func() {
	var (
		ctx   context.Context
		jobDB transcriptionstorage.DB
		job   transcriptionentity.Job
	)

	BeforeEach(func() {
		ctx = context.Background()
		ResetDB(db)
		jobDB = transcriptionstorage.NewDB(db)

		job = transcriptionentity.NewJob("https://example.com/song.mp3", true, 120)
		Expect(jobDB.PutJob(ctx, job)).To(Succeed())
	})

	It("reads back a stored job", func() {
		fetched := ExpectSuccess(jobDB.GetJob(ctx, job.ID))

		Expect(fetched.ID).To(Equal(job.ID))
		Expect(fetched.InputURL).To(Equal(job.InputURL))
		Expect(fetched.Status).To(Equal(transcriptionentity.RequestedStatus))
		Expect(fetched.Result).To(BeNil())
	})

	It("marks a missing job as not found", func() {
		_, err := jobDB.GetJob(ctx, "missing")
		Expect(errors.Is(err, transcriptionentity.ErrJobNotFound)).To(BeTrue())
	})

	It("refuses a job without an ID", func() {
		Expect(jobDB.PutJob(ctx, transcriptionentity.Job{})).NotTo(Succeed())
	})

	Describe("UpdateJob", func() {
		It("stores the result", func() {
			result := transcriptionentity.CompletedResult([]transcriptionentity.Track{
				transcriptionentity.NewTrack("original", "transcribed", "https://storage/a.mp3", "https://storage/original.mid",
					[]transcriptionentity.Note{{Pitch: 60, Start: 0, Duration: 0.5, Velocity: 0.5}}),
			})

			err := jobDB.UpdateJob(ctx, job.ID, func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
				job.Status = transcriptionentity.CompletedStatus
				job.Result = &result
				return job, nil
			})
			Expect(err).NotTo(HaveOccurred())

			fetched := ExpectSuccess(jobDB.GetJob(ctx, job.ID))
			Expect(fetched.Status).To(Equal(transcriptionentity.CompletedStatus))
			Expect(fetched.Result).NotTo(BeNil())
			Expect(fetched.Result.Tracks).To(HaveLen(1))
			Expect(fetched.Result.Tracks[0].Notes[0].Pitch).To(Equal(60))
		})

		It("doesn't let the updater change the ID", func() {
			err := jobDB.UpdateJob(ctx, job.ID, func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
				job.ID = "other"
				return job, nil
			})
			Expect(err).To(HaveOccurred())
		})

		It("fails for a missing job", func() {
			err := jobDB.UpdateJob(ctx, "missing", func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
				return job, nil
			})
			Expect(errors.Is(err, transcriptionentity.ErrJobNotFound)).To(BeTrue())
		})
	})
})
