package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/chord-paper-transcriber/src/server/api_error"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:                     http.StatusInternalServerError,
	transcribeerrors.MissingFileCode:         http.StatusBadRequest,
	transcribeerrors.BadParamsCode:           http.StatusBadRequest,
	transcribeerrors.TranscriptionFailedCode: http.StatusInternalServerError,
	transcribeerrors.ArtifactNotFoundCode:    http.StatusNotFound,
	joberrors.BadJobDataCode:                 http.StatusBadRequest,
	joberrors.JobNotFoundCode:                http.StatusNotFound,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	if statusCode >= http.StatusInternalServerError {
		cerr.Log(err.InternalError)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:         string(err.ErrorCode),
		Msg:          err.UserMessage,
		ErrorDetails: err.Error(),
	})
}
