package request

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/env"
)

func Context(c echo.Context) context.Context {
	// opt to not use the request context in development situations
	// to avoid timeouts during debugging
	if env.IsDevelopment() {
		return context.Background()
	}

	return c.Request().Context()
}
