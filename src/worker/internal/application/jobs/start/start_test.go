package start_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/dummy"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/start"
)

var _ = Describe("Start", func() {
	var (
		dummyJobStore *dummy.JobStore

		handler start.JobHandler

		message []byte
		job     transcriptionentity.Job
	)

	BeforeEach(func() {
		By("Initializing all variables", func() {
			message = nil
			dummyJobStore = dummy.NewDummyJobStore()
			job = transcriptionentity.NewJob("https://example.com/song.wav", true, 0)
		})

		By("Setting up the dummy job store data", func() {
			Expect(dummyJobStore.PutJob(context.Background(), job)).To(Succeed())
		})

		By("Instantiating the handler", func() {
			handler = start.NewJobHandler(dummyJobStore)
		})
	})

	Describe("Well formed message", func() {
		BeforeEach(func() {
			var err error
			message, err = json.Marshal(start.JobParams{
				JobIdentifier: job_message.JobIdentifier{JobID: job.ID},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		Describe("Happy path", func() {
			var err error
			var jobParams start.JobParams

			BeforeEach(func() {
				jobParams, err = handler.HandleStartJob(context.Background(), message)
			})

			It("doesn't return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("updates the job status", func() {
				storedJob, err := dummyJobStore.GetJob(context.Background(), job.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(storedJob.Status).To(Equal(transcriptionentity.ProcessingStatus))
			})

			It("returns the processed data", func() {
				Expect(jobParams.JobID).To(Equal(job.ID))
			})
		})

		Describe("Job is not in requested status", func() {
			BeforeEach(func() {
				job.Status = transcriptionentity.CompletedStatus
				Expect(dummyJobStore.PutJob(context.Background(), job)).To(Succeed())
			})

			It("returns an error", func() {
				_, err := handler.HandleStartJob(context.Background(), message)
				Expect(err).To(HaveOccurred())
			})

			It("leaves the job alone", func() {
				_, _ = handler.HandleStartJob(context.Background(), message)

				storedJob, err := dummyJobStore.GetJob(context.Background(), job.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(storedJob.Status).To(Equal(transcriptionentity.CompletedStatus))
			})
		})

		Describe("Job doesn't exist", func() {
			BeforeEach(func() {
				dummyJobStore.State = map[string]transcriptionentity.Job{}
			})

			It("returns a not found error", func() {
				_, err := handler.HandleStartJob(context.Background(), message)
				Expect(err).To(MatchError(ContainSubstring("Job is not found")))
			})
		})

		Describe("Can't reach job store", func() {
			BeforeEach(func() {
				dummyJobStore.Unavailable = true
			})

			It("returns an error", func() {
				_, err := handler.HandleStartJob(context.Background(), message)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Poorly formed message", func() {
		It("returns error for a missing job ID", func() {
			_, err := handler.HandleStartJob(context.Background(), []byte(`{"tracklist_id":"abc"}`))
			Expect(err).To(HaveOccurred())
		})

		It("returns error for invalid JSON", func() {
			_, err := handler.HandleStartJob(context.Background(), []byte(`{`))
			Expect(err).To(HaveOccurred())
		})
	})
})
