package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/server/middleware"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// PersonalitiesByHandler lists the personalities holding one facet value
// (educated at a school, member of a party, ...). Rows with cached display
// metadata get the local image and article count; the rest keep what the
// reference store returned.
func PersonalitiesByHandler(facet store.Facet) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := new(wikiIDParam)
		if err := c.Bind(params); err != nil {
			return badRequest(c)
		}
		if err := c.Validate(params); err != nil {
			return badRequest(c)
		}

		app := c.(*middleware.AppContext).App

		personalities, err := app.Store.PersonalitiesBy(c.Request().Context(), facet, params.WikiID)
		if err != nil {
			return writeStoreError(c, err)
		}

		for i, p := range personalities {
			meta, ok := app.Dataset.Lookup(p.WikiID)
			if !ok {
				continue
			}
			personalities[i].ImageURL = meta.ImageURL
			if info, ok := app.Dataset.Info(p.WikiID); ok {
				personalities[i].NrArticles = info.NrArticles
			}
		}
		return c.JSON(http.StatusOK, personalities)
	}
}
