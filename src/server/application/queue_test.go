package application_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-transcriber/src/server/application"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/usecase"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	dynamolib "github.com/veedubyou/chord-paper-transcriber/src/shared/lib/dynamo"
	. "github.com/veedubyou/chord-paper-transcriber/src/shared/testing"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	transcriptionstorage "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/storage"
)

const queueTestRegion = "server-queue-test"

// Runs against the local DynamoDB and RabbitMQ containers
var _ = Describe("Queued jobs", Ordered, func() {
	var (
		app      application.App
		rabbitMQ *amqp091.Connection
	)

	BeforeAll(func() {
		RequireLocalServices()

		rabbitMQ = MakeRabbitMQConnection()
		ResetDB(MakeTestDB(queueTestRegion))

		app = application.NewAppWithDependencies(application.Config{
			Pipeline:   config.Pipeline{MaxDuration: 300, OnsetThreshold: 0.5, FrameThreshold: 0.3, MinNoteLength: 0.127},
			OutputRoot: TempDir(),
			Port:       ServerPort,
		}, application.Dependencies{
			JobStore:    transcriptionstorage.NewDB(dynamolib.NewDynamoDB(DynamoConfig(queueTestRegion))),
			Publisher:   MakeRabbitMQPublisher(),
			Transcriber: noopTranscriber{},
			Processor:   noopProcessor{},
		})

		go func() {
			defer GinkgoRecover()
			Expect(app.Start()).To(Succeed())
		}()

		Eventually(func() int {
			response, err := RequestFactory{Method: "GET", Target: ServerEndpoint("/health-check")}.Do()
			if err != nil {
				return 0
			}
			defer response.Body.Close()
			return response.StatusCode
		}, 5*time.Second, 50*time.Millisecond).Should(Equal(http.StatusOK))
	})

	AfterAll(func() {
		if rabbitMQ == nil {
			return
		}

		Expect(app.Stop()).To(Succeed())
		AfterSuiteRabbitMQ(rabbitMQ)
		AfterSuiteDB(MakeTestDB(queueTestRegion))
		Expect(rabbitMQ.Close()).To(Succeed())
	})

	BeforeEach(func() {
		ResetRabbitMQ(rabbitMQ)
	})

	It("stores the job and queues its start", func() {
		response := ExpectSuccess(RequestFactory{
			Method:  "POST",
			Target:  ServerEndpoint("/jobs"),
			JSONObj: jobusecase.CreateJobRequest{InputURL: "https://example.com/song.mp3", UseSeparation: true},
		}.Do())
		defer response.Body.Close()

		Expect(response.StatusCode).To(Equal(http.StatusCreated))
		created := DecodeJSON[transcriptionentity.Job](response.Body)

		message := NextJobMessage(rabbitMQ, 5*time.Second)
		Expect(message.Type).To(Equal(jobusecase.StartJobType))
		Expect(message.JobID).To(Equal(created.ID))

		getResponse := ExpectSuccess(RequestFactory{Method: "GET", Target: ServerEndpoint("/jobs/" + created.ID)}.Do())
		defer getResponse.Body.Close()

		Expect(getResponse.StatusCode).To(Equal(http.StatusOK))
		fetched := DecodeJSON[transcriptionentity.Job](getResponse.Body)
		Expect(fetched.Status).To(Equal(transcriptionentity.RequestedStatus))
		Expect(fetched.UseSeparation).To(BeTrue())
	})
})
