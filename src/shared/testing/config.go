package testing

import (
	"os"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/dev"
)

// DynamoDB
const (
	DynamoAccessKeyID     = dev.DynamoAccessKeyID
	DynamoSecretAccessKey = dev.DynamoSecretAccessKey
	DynamoDBHost          = dev.DynamoDBHost
)

func DynamoConfig(region string) config.LocalDynamo {
	return config.LocalDynamo{
		AccessKeyID:     DynamoAccessKeyID,
		SecretAccessKey: DynamoSecretAccessKey,
		Region:          region,
		Host:            DynamoDBHost,
	}
}

// RabbitMQ
const (
	RabbitMQHost      = dev.RabbitMQHost
	RabbitMQQueueName = "chord-paper-transcriptions-test"
)

// Server
const (
	ServerPort = ":5010"
)

const localServicesEnv = "TRANSCRIBER_LOCAL_SERVICES"

// RequireLocalServices skips specs that talk to the local DynamoDB and
// RabbitMQ containers unless they've been announced as running
func RequireLocalServices() {
	if os.Getenv(localServicesEnv) == "" {
		ginkgo.Skip("set " + localServicesEnv + " to run against local DynamoDB and RabbitMQ")
	}
}

// ServerEndpoint is the URL of a path on the server started by a test
func ServerEndpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		panic("Endpoint paths start with /")
	}

	return "http://localhost" + ServerPort + path
}
