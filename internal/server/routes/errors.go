package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/pkg/logger"
	"github.com/politiquices/politiquices-api/pkg/query"
)

// writeStoreError maps a failed lookup to the right status: bad input is the
// caller's fault, everything else means the backing store misbehaved.
func writeStoreError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, query.ErrInvalidID),
		errors.Is(err, query.ErrInvalidRelation),
		errors.Is(err, query.ErrUnknownEntity):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		logger.Error("Store query failed", "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "backing store unavailable"})
	}
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
}
