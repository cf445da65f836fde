package jobgateway

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/gateway"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/job/usecase"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/lib/request"
)

type Gateway struct {
	usecase jobusecase.Usecase
}

func NewGateway(usecase jobusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) CreateJob(c echo.Context) error {
	ctx := request.Context(c)

	createRequest := jobusecase.CreateJobRequest{}
	if err := c.Bind(&createRequest); err != nil {
		err = errors.Wrap(err, "Failed to bind request body to job request")
		apiErr := api.CommitError(err,
			joberrors.BadJobDataCode,
			"The job data received was malformed")
		return gateway.ErrorResponse(c, apiErr)
	}

	job, apiErr := g.usecase.CreateJob(ctx, createRequest)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusCreated, job)
}

func (g Gateway) GetJob(c echo.Context, jobID string) error {
	ctx := request.Context(c)

	job, apiErr := g.usecase.GetJob(ctx, jobID)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to get job")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, job)
}
