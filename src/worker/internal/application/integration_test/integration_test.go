package integration_test_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/prod"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq"
	rabbitmqdummy "github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq/dummy"
	transcriptiondummy "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/dummy"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/integration_test/dummy"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_router"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process/download"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/save_result"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/start"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/worker"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/lib/storagepath"
)

var _ = Describe("IntegrationTest", func() {
	var (
		job           transcriptionentity.Job
		inputURL      string
		inputData     []byte
		bucketName    string
		pathGenerator storagepath.Generator

		rabbitMQ  *rabbitmqdummy.RabbitMQ
		fileStore *dummy.FileStore
		jobStore  *transcriptiondummy.JobStore
		processor *dummy.Processor

		queueWorker *worker.QueueWorker
		run         func()
		getJob      func() transcriptionentity.Job
	)

	BeforeEach(func() {
		By("Assigning data to variables", func() {
			bucketName = "bucket-head"
			pathGenerator = storagepath.Generator{
				Host:   prod.GOOGLE_STORAGE_HOST,
				Bucket: bucketName,
			}

			inputURL = pathGenerator.GeneratePath("uploads", "jams.mp3")
			inputData = []byte("cool-jamz")
			job = transcriptionentity.NewJob(inputURL, false, 120)
		})

		By("Instantiating all dummies", func() {
			rabbitMQ = rabbitmqdummy.NewRabbitMQ()
			fileStore = dummy.NewDummyFileStore()
			jobStore = transcriptiondummy.NewDummyJobStore()
			processor = dummy.NewDummyProcessor("original", "full")
		})

		By("Setting up the stores", func() {
			Expect(jobStore.PutJob(context.Background(), job)).To(Succeed())
			Expect(fileStore.WriteFile(context.Background(), inputURL, inputData)).To(Succeed())
		})

		var processHandler process.JobHandler
		By("Creating the process job handler", func() {
			downloader := download.NewSelectDLer(
				pathGenerator,
				download.NewFileStoreDLer(fileStore),
				download.NewGenericDLer(nil),
			)

			var err error
			processHandler, err = process.NewJobHandler(jobStore, downloader, processor, fileStore, pathGenerator, workingDir)
			Expect(err).NotTo(HaveOccurred())
		})

		By("Instantiating the worker", func() {
			router := job_router.NewJobRouter(
				jobStore,
				rabbitMQ,
				start.NewJobHandler(jobStore),
				processHandler,
				save_result.NewJobHandler(jobStore),
			)
			queueWorker = worker.NewQueueWorker(rabbitMQ, "test-queue", router)
		})

		By("Setting up the run routine", func() {
			run = func() {
				go func() {
					defer GinkgoRecover()
					err := queueWorker.Start()
					Expect(err).NotTo(HaveOccurred())
				}()

				message, err := rabbitmq.JSONMessage(start.JobType, start.JobParams{
					JobIdentifier: job_message.JobIdentifier{JobID: job.ID},
				})
				Expect(err).NotTo(HaveOccurred())

				err = rabbitMQ.Publish(context.Background(), message)
				Expect(err).NotTo(HaveOccurred())
			}

			getJob = func() transcriptionentity.Job {
				storedJob, err := jobStore.GetJob(context.Background(), job.ID)
				Expect(err).NotTo(HaveOccurred())
				return storedJob
			}
		})
	})

	Describe("All jobs run successfully", func() {
		It("gets 3 acks", func() {
			run()

			Eventually(rabbitMQ.AckCount).Should(Equal(3))
		})

		It("gets no nacks", func() {
			run()

			Eventually(rabbitMQ.AckCount).Should(Equal(3))
			Consistently(rabbitMQ.NackCount).Should(Equal(0))
		})

		It("chains the jobs in order", func() {
			run()

			Eventually(rabbitMQ.PublishedTypes).Should(Equal([]string{
				start.JobType,
				process.JobType,
				save_result.JobType,
			}))
		})

		It("runs the pipeline with the job's settings", func() {
			run()

			Eventually(func() int { return len(processor.Requests()) }).Should(Equal(1))
			request := processor.Requests()[0]
			Expect(request.UseSeparation).To(BeFalse())
			Expect(request.MaxDuration).To(Equal(120.0))
			Expect(request.InputPath).To(HaveSuffix("input.mp3"))
		})

		It("completes the job with uploaded artifacts", func() {
			run()

			Eventually(func() transcriptionentity.JobStatus {
				return getJob().Status
			}).Should(Equal(transcriptionentity.CompletedStatus))

			storedJob := getJob()
			Expect(storedJob.Result).NotTo(BeNil())
			Expect(storedJob.Result.Success).To(BeTrue())
			Expect(storedJob.Result.Tracks).To(HaveLen(2))

			for _, track := range storedJob.Result.Tracks {
				Expect(track.MIDIPath).To(Equal(pathGenerator.GeneratePath(job.ID, track.Stem+".mid")))
				Expect(track.AudioPath).To(Equal(pathGenerator.GeneratePath(job.ID, "input.mp3")))

				contents, err := fileStore.GetFile(context.Background(), track.MIDIPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(contents)).To(Equal(string(inputData) + "-" + track.Stem))
			}

			audio, err := fileStore.GetFile(context.Background(), pathGenerator.GeneratePath(job.ID, "input.mp3"))
			Expect(err).NotTo(HaveOccurred())
			Expect(audio).To(Equal(inputData))
		})
	})

	Describe("The pipeline transcribes nothing", func() {
		BeforeEach(func() {
			processor.FailAll = true
		})

		It("still acks every job", func() {
			run()

			Eventually(rabbitMQ.AckCount).Should(Equal(3))
		})

		It("reports the error status", func() {
			run()

			Eventually(func() transcriptionentity.JobStatus {
				return getJob().Status
			}).Should(Equal(transcriptionentity.ErrorStatus))

			Expect(getJob().StatusMessage).To(Equal(save_result.NoTracksMessage))
		})
	})

	Describe("File storage is down", func() {
		BeforeEach(func() {
			fileStore.Unavailable = true
		})

		It("gets 1 ack for the start job", func() {
			run()

			Eventually(rabbitMQ.AckCount).Should(Equal(1))
		})

		It("gets 1 nack for the process job failing", func() {
			run()

			Eventually(rabbitMQ.NackCount).Should(Equal(1))
		})

		It("reports the error status", func() {
			run()

			Eventually(func() transcriptionentity.JobStatus {
				return getJob().Status
			}).Should(Equal(transcriptionentity.ErrorStatus))

			storedJob := getJob()
			Expect(storedJob.StatusMessage).To(Equal(process.ErrorMessage))
			Expect(storedJob.StatusDebugLog).To(ContainSubstring("Failed to download the input"))
		})
	})

	Describe("The job was already started", func() {
		BeforeEach(func() {
			err := jobStore.UpdateJob(context.Background(), job.ID, func(job transcriptionentity.Job) (transcriptionentity.Job, error) {
				job.Status = transcriptionentity.ProcessingStatus
				return job, nil
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("nacks the start job", func() {
			run()

			Eventually(rabbitMQ.NackCount).Should(Equal(1))
			Consistently(rabbitMQ.AckCount).Should(Equal(0))
		})

		It("marks the job as errored", func() {
			run()

			Eventually(func() string {
				return getJob().StatusMessage
			}).Should(Equal(start.ErrorMessage))
		})
	})

	Describe("Unknown message type", func() {
		It("nacks it", func() {
			go func() {
				defer GinkgoRecover()
				Expect(queueWorker.Start()).To(Succeed())
			}()

			Expect(rabbitMQ.Publish(context.Background(), amqp091.Publishing{
				Type: "split_track",
				Body: []byte(`{"job_id":"whatever"}`),
			})).To(Succeed())

			Eventually(rabbitMQ.NackCount).Should(Equal(1))
		})
	})
})
