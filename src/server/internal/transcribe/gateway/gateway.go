package transcribegateway

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/gateway"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/lib/request"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/usecase"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
)

const fileField = "file"

type Gateway struct {
	usecase       transcribeusecase.Usecase
	defaultParams transcription.Params
}

func NewGateway(usecase transcribeusecase.Usecase, defaultParams transcription.Params) Gateway {
	return Gateway{
		usecase:       usecase,
		defaultParams: defaultParams,
	}
}

// Upload transcribes one file without separating it
func (g Gateway) Upload(c echo.Context) error {
	ctx := request.Context(c)

	params, apiErr := g.parseParams(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	upload, closeUpload, apiErr := formUpload(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	defer closeUpload()

	result, apiErr := g.usecase.Transcribe(ctx, upload, params)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, result)
}

// Process runs the whole pipeline on one file
func (g Gateway) Process(c echo.Context) error {
	ctx := request.Context(c)

	options := transcribeusecase.ProcessOptions{}

	useSeparation, err := formBool(c, "use_separation", true)
	if err != nil {
		return gateway.ErrorResponse(c, badParams(err))
	}
	options.UseSeparation = useSeparation

	maxDuration, err := formFloat(c, "max_duration")
	if err != nil {
		return gateway.ErrorResponse(c, badParams(err))
	}
	if maxDuration != nil {
		options.MaxDuration = *maxDuration
	}

	upload, closeUpload, apiErr := formUpload(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	defer closeUpload()

	result, _, apiErr := g.usecase.Process(ctx, upload, options)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, result)
}

func (g Gateway) GetRunArtifact(c echo.Context, runID string, filename string) error {
	filePath, apiErr := g.usecase.RunArtifact(runID, filename)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.File(filePath)
}

func (g Gateway) GetMIDI(c echo.Context, filename string) error {
	filePath, apiErr := g.usecase.MIDIFile(filename)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.File(filePath)
}

func (g Gateway) parseParams(c echo.Context) (transcription.Params, *api.Error) {
	params := g.defaultParams

	floatFields := map[string]*float64{
		"onset_threshold": &params.OnsetThreshold,
		"frame_threshold": &params.FrameThreshold,
		"min_note_len":    &params.MinNoteLength,
	}

	for field, target := range floatFields {
		value, err := formFloat(c, field)
		if err != nil {
			return transcription.Params{}, badParams(err)
		}

		if value != nil {
			*target = *value
		}
	}

	minFreq, err := formFloat(c, "min_freq")
	if err != nil {
		return transcription.Params{}, badParams(err)
	}
	if minFreq != nil {
		params.MinFreq = minFreq
	}

	maxFreq, err := formFloat(c, "max_freq")
	if err != nil {
		return transcription.Params{}, badParams(err)
	}
	if maxFreq != nil {
		params.MaxFreq = maxFreq
	}

	melodiaTrick, err := formBool(c, "melodia_trick", params.MelodiaTrick)
	if err != nil {
		return transcription.Params{}, badParams(err)
	}
	params.MelodiaTrick = melodiaTrick

	return params, nil
}

func formUpload(c echo.Context) (transcribeusecase.Upload, func(), *api.Error) {
	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		return transcribeusecase.Upload{}, nil, api.CommitError(
			errors.Wrap(err, "Failed to read the uploaded file"),
			transcribeerrors.MissingFileCode,
			"No file provided")
	}

	if fileHeader.Filename == "" {
		return transcribeusecase.Upload{}, nil, api.CommitError(
			errors.New("Uploaded file has no name"),
			transcribeerrors.MissingFileCode,
			"No file selected")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return transcribeusecase.Upload{}, nil, api.CommitError(
			errors.Wrap(err, "Failed to open the uploaded file"),
			api.DefaultErrorCode,
			"Failed to read the uploaded file")
	}

	upload := transcribeusecase.Upload{
		Filename: fileHeader.Filename,
		Content:  file,
	}

	return upload, func() { _ = file.Close() }, nil
}

// formFloat is nil when the field is absent or empty
func formFloat(c echo.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "Field %s is not a number", field)
	}

	return &value, nil
}

func formBool(c echo.Context, field string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, errors.Wrapf(err, "Field %s is not a boolean", field)
	}

	return value, nil
}

func badParams(err error) *api.Error {
	return api.CommitError(err, transcribeerrors.BadParamsCode, "The request parameters are malformed")
}
