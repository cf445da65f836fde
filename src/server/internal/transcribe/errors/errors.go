package transcribeerrors

import (
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
)

const (
	MissingFileCode         = api.ErrorCode("missing_file")
	BadParamsCode           = api.ErrorCode("bad_params")
	TranscriptionFailedCode = api.ErrorCode("transcription_failed")
	ArtifactNotFoundCode    = api.ErrorCode("artifact_not_found")
)
