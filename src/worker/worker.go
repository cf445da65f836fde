package main

import (
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/dev"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/envvar"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/local"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/prod"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/env"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/application"
)

func main() {
	pipelineConfig, err := config.LoadPipeline()
	if err != nil {
		panic(err)
	}

	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			CloudStorageConfig: config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			},
			RabbitMQURL:       envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			Pipeline:          pipelineConfig,
		}

	case env.Development:
		// the local working dir lives in the repo, unless overridden
		if pipelineConfig.WorkingDirPath == config.DefaultWorkingDirPath {
			pipelineConfig.WorkingDirPath = local.WorkingDir("worker")
		}

		// the local fake GCS doesn't persist, so a real bucket is preferred when configured
		var cloudStorageConfig config.CloudStorage = dev.CloudStorageConfig
		if envvar.IsSet(envvar.GOOGLE_CLOUD_KEY) {
			cloudStorageConfig = config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			}
		}

		appConfig = application.Config{
			DynamoConfig:       dev.DynamoConfig,
			CloudStorageConfig: cloudStorageConfig,
			RabbitMQURL:        dev.RabbitMQHost,
			RabbitMQQueueName:  dev.RabbitMQQueueName,
			Pipeline:           pipelineConfig,
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
