package application

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/gateway"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/usecase"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/gateway"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/usecase"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	dynamolib "github.com/veedubyou/chord-paper-transcriber/src/shared/lib/dynamo"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	transcriptionstorage "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/storage"
)

type HTTPMethod string

const (
	GET  HTTPMethod = "GET"
	POST HTTPMethod = "POST"
)

type App struct {
	echo *echo.Echo
	port string
}

type Config struct {
	DynamoConfig       config.Dynamo
	RabbitMQURL        string
	RabbitMQQueueName  string
	CORSAllowedOrigins []string
	Pipeline           config.Pipeline
	OutputRoot         string
	Port               string
	Log                bool
}

// Dependencies are what the routes run against. NewApp builds the real
// ones, tests can hand in their own.
type Dependencies struct {
	JobStore    transcriptionentity.JobStore
	Publisher   rabbitmq.Publisher
	Transcriber transcribeusecase.StandaloneTranscriber
	Processor   transcribeusecase.Processor
}

func NewApp(config Config) App {
	components, err := pipeline.Build(config.Pipeline, executor.BinaryFileExecutor{}, nil)
	if err != nil {
		panic(errors.Wrap(err, "Failed to build the pipeline"))
	}

	return NewAppWithDependencies(config, Dependencies{
		JobStore:    makeJobStore(config.DynamoConfig),
		Publisher:   makeRabbitMQPublisher(config),
		Transcriber: components.Transcriber,
		Processor:   components.Orchestrator,
	})
}

func NewAppWithDependencies(config Config, deps Dependencies) App {
	e := echo.New()
	e.HideBanner = true

	if config.Log {
		e.Use(middleware.Logger())
	}

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		default:
			panic("unhandled http method!")
		}
	}

	transcribeGateway := transcribegateway.NewGateway(
		transcribeusecase.NewUsecase(deps.Transcriber, deps.Processor, config.OutputRoot, config.Pipeline.MaxDuration),
		pipeline.ParamsFromConfig(config.Pipeline),
	)
	jobGateway := jobgateway.NewGateway(jobusecase.NewUsecase(deps.JobStore, deps.Publisher))

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// synchronous transcription routes
	handleRoute(POST, "/upload", transcribeGateway.Upload)
	handleRoute(POST, "/process", transcribeGateway.Process)
	handleRoute(GET, "/runs/:run_id/:filename", func(c echo.Context) error {
		return transcribeGateway.GetRunArtifact(c, c.Param("run_id"), c.Param("filename"))
	})
	handleRoute(GET, "/midi/:filename", func(c echo.Context) error {
		return transcribeGateway.GetMIDI(c, c.Param("filename"))
	})

	// queued job routes
	handleRoute(POST, "/jobs", jobGateway.CreateJob)
	handleRoute(GET, "/jobs/:id", func(c echo.Context) error {
		return jobGateway.GetJob(c, c.Param("id"))
	})

	return App{
		echo: e,
		port: config.Port,
	}
}

// Handler exposes the routes without listening on a port
func (a *App) Handler() http.Handler {
	return a.echo
}

func (a *App) Start() error {
	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

func (a *App) Stop() error {
	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	return nil
}

func makeRabbitMQPublisher(config Config) *rabbitmq.QueuePublisher {
	publisher, err := rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName)
	if err != nil {
		panic(errors.Wrap(err, "Failed to create rabbitMQ publisher"))
	}

	return publisher
}

func makeJobStore(dynamoConfig config.Dynamo) transcriptionstorage.DB {
	db := transcriptionstorage.NewDB(dynamolib.NewDynamoDB(dynamoConfig))
	if err := db.EnsureTable(); err != nil {
		panic(errors.Wrap(err, "Failed to ensure the jobs table"))
	}

	return db
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
}
