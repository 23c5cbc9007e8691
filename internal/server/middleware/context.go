package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/dataset"
	"github.com/politiquices/politiquices-api/internal/stats"
	"github.com/politiquices/politiquices-api/pkg/query"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// App bundles the shared dependencies handlers need.
type App struct {
	Store   store.Store
	Dataset *dataset.Dataset
	Query   *query.Service
	Stats   *stats.Engine

	StartYear int
	EndYear   int
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
