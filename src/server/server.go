package main

import (
	"strings"

	"github.com/veedubyou/chord-paper-transcriber/src/server/application"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/dev"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/envvar"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/local"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/prod"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/env"
)

func main() {
	pipelineConfig, err := config.LoadPipeline()
	if err != nil {
		panic(err)
	}

	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		commaSeparatedOrigins := envvar.MustGet(envvar.ALLOWED_FE_ORIGINS)
		allowedOrigins := strings.Split(commaSeparatedOrigins, ",")

		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			RabbitMQURL:        envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName:  envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			CORSAllowedOrigins: allowedOrigins,
			Pipeline:           pipelineConfig,
			OutputRoot:         envvar.MustGet(envvar.OUTPUT_ROOT),
			Port:               ":5000",
			Log:                true,
		}

	case env.Development:
		if pipelineConfig.WorkingDirPath == config.DefaultWorkingDirPath {
			pipelineConfig.WorkingDirPath = local.WorkingDir("server")
		}

		appConfig = application.Config{
			DynamoConfig:       dev.DynamoConfig,
			RabbitMQURL:        dev.RabbitMQHost,
			RabbitMQQueueName:  dev.RabbitMQQueueName,
			CORSAllowedOrigins: []string{"*"},
			Pipeline:           pipelineConfig,
			OutputRoot:         local.OutputRoot("server"),
			Port:               ":5000",
			Log:                true,
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
