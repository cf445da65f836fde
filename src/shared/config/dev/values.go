package dev

import "github.com/veedubyou/chord-paper-transcriber/src/shared/config"

// DynamoDB
const (
	DynamoAccessKeyID     = "local"
	DynamoSecretAccessKey = "local"
	DynamoDBHost          = "http://localhost:8000"
	DynamoDBRegion        = "localhost"
)

var DynamoConfig = config.LocalDynamo{
	AccessKeyID:     DynamoAccessKeyID,
	SecretAccessKey: DynamoSecretAccessKey,
	Region:          DynamoDBRegion,
	Host:            DynamoDBHost,
}

// RabbitMQ
const (
	RabbitMQHost      = "amqp://localhost:5672"
	RabbitMQQueueName = "chord-paper-transcriptions-dev"
)

// Cloud Storage, served by fake-gcs-server
const (
	CloudStorageHost     = "http://localhost:4443"
	CloudStorageEndpoint = CloudStorageHost + "/storage/v1/"
	CloudStorageBucket   = "chord-paper-transcriptions-dev"
)

var CloudStorageConfig = config.LocalCloudStorage{
	StorageHost:  CloudStorageHost,
	HostEndpoint: CloudStorageEndpoint,
	BucketName:   CloudStorageBucket,
}
