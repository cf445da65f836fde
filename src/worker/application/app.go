package application

import (
	"path/filepath"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	dynamolib "github.com/veedubyou/chord-paper-transcriber/src/shared/lib/dynamo"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	transcriptionstorage "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/storage"
	filestore "github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/cloud_storage/store"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_router"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process/download"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/save_result"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/start"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/worker"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/lib/storagepath"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker *worker.QueueWorker
}

type Config struct {
	RabbitMQURL        string
	RabbitMQQueueName  string
	DynamoConfig       config.Dynamo
	CloudStorageConfig config.CloudStorage
	Pipeline           config.Pipeline
}

func NewApp(config Config) App {
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		worker: newWorker(config, consumerConn),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newWorker(config Config, consumerConn *amqp091.Connection) *worker.QueueWorker {
	publisher := must(rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName))

	jobStore := newJobStore(config.DynamoConfig)

	return must(worker.NewQueueWorkerFromConnection(
		consumerConn,
		config.RabbitMQQueueName,
		newJobRouter(config, jobStore, publisher)))
}

func newJobStore(dynamoConfig config.Dynamo) transcriptionstorage.DB {
	db := transcriptionstorage.NewDB(dynamolib.NewDynamoDB(dynamoConfig))
	if err := db.EnsureTable(); err != nil {
		panic(err)
	}

	return db
}

func newGoogleFileStore(cloudStorageConfig config.CloudStorage) filestore.GoogleFileStore {
	return must(filestore.NewGoogleFileStore(
		cloudStorageConfig.GetStorageHost(),
		cloudStorageConfig.ClientOptions()...,
	))
}

func newJobRouter(config Config, jobStore transcriptionentity.JobStore, publisher rabbitmq.Publisher) job_router.JobRouter {
	return job_router.NewJobRouter(
		jobStore,
		publisher,
		start.NewJobHandler(jobStore),
		newProcessJobHandler(config, jobStore),
		save_result.NewJobHandler(jobStore))
}

func newProcessJobHandler(config Config, jobStore transcriptionentity.JobStore) process.JobHandler {
	pathGenerator := storagepath.Generator{
		Host:   config.CloudStorageConfig.GetStorageHost(),
		Bucket: config.CloudStorageConfig.GetBucket(),
	}

	components := must(pipeline.Build(config.Pipeline, executor.BinaryFileExecutor{}, nil))

	fileStore := newGoogleFileStore(config.CloudStorageConfig)
	downloader := download.NewSelectDLer(
		pathGenerator,
		download.NewFileStoreDLer(fileStore),
		download.NewGenericDLer(nil),
	)

	return must(process.NewJobHandler(
		jobStore,
		downloader,
		components.Orchestrator,
		fileStore,
		pathGenerator,
		filepath.Join(config.Pipeline.WorkingDirPath, "jobs"),
	))
}
