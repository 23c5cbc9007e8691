package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/server/middleware"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// GetTimelineHandler returns the dated relationship rows for a set of
// personalities, newest first.
func GetTimelineHandler(c echo.Context) error {
	type timelineParams struct {
		IDs       []string `query:"q" validate:"required,min=1,dive,wiki_id"`
		Selected  bool     `query:"selected"`
		Sentiment bool     `query:"sentiment"`
	}

	params := new(timelineParams)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App

	entries, err := app.Store.Timeline(c.Request().Context(), params.IDs, store.TimelineOptions{
		OnlyAmongSelected: params.Selected,
		OnlySentiment:     params.Sentiment,
	})
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
