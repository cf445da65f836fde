package joberrors

import (
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
)

const (
	BadJobDataCode  = api.ErrorCode("bad_job_data")
	JobNotFoundCode = api.ErrorCode("job_not_found")
)
