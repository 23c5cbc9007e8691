package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/server/middleware"
)

// QueriesHandler answers the free-form cross-entity query: each side may be
// a person or a party, with an optional year window.
func QueriesHandler(c echo.Context) error {
	type queriesParams struct {
		Ent1    string `query:"ent1" validate:"required,wiki_id"`
		Ent2    string `query:"ent2" validate:"required,wiki_id"`
		RelType string `query:"rel_type" validate:"required"`
		Start   int    `query:"start" validate:"omitempty,min=1900,max=2100"`
		End     int    `query:"end" validate:"omitempty,min=1900,max=2100"`
	}

	params := new(queriesParams)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App

	rels, err := app.Query.Between(c.Request().Context(), params.Ent1, params.Ent2, params.RelType, params.Start, params.End)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, rels)
}
