package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/server/middleware"
)

// GetStatsHandler serves the aggregate corpus statistics snapshot.
func GetStatsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	snapshot, err := app.Stats.Snapshot(c.Request().Context())
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}
