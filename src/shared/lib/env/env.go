package env

import (
	"os"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/envvar"
)

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Test        Environment = "test"
)

func Get() Environment {
	environment := envvar.MustGet(envvar.ENVIRONMENT)

	switch environment {
	case "production":
		return Production
	case "development":
		return Development
	case "test":
		return Test
	default:
		panic("Invalid environment is set")
	}
}

// IsDevelopment doesn't panic when no environment is set
func IsDevelopment() bool {
	environment, ok := os.LookupEnv(envvar.ENVIRONMENT)
	return ok && environment == string(Development)
}
