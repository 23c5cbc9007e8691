package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/politiquices/politiquices-api/internal/dataset"
	"github.com/politiquices/politiquices-api/internal/metrics"
	mid "github.com/politiquices/politiquices-api/internal/server/middleware"
	"github.com/politiquices/politiquices-api/internal/stats"
	"github.com/politiquices/politiquices-api/internal/util"
	"github.com/politiquices/politiquices-api/pkg/logger"
	"github.com/politiquices/politiquices-api/pkg/query"
	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store/sparqlstore"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

var wikiIDRe = regexp.MustCompile(`^Q\d+$`)

func newValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("wiki_id", func(fl validator.FieldLevel) bool {
		return wikiIDRe.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sparqlBase := util.GetEnvString("SPARQL_ENDPOINT", "http://localhost:3030")
	referenceURL := sparqlBase + "/wikidata/query"
	client := sparql.NewClient(sparql.NewClientParams{
		FactsURL:     sparqlBase + "/politiquices/query",
		ReferenceURL: referenceURL,
	})

	// The triple store may come up after us; wait for it before serving.
	err := util.RetryErrWithContext(ctx, 10, func(ctx context.Context) error {
		return client.Ping(ctx)
	})
	if err != nil {
		logger.Fatal("SPARQL endpoint unreachable", "endpoint", sparqlBase, "err", err)
	}

	staticData := util.GetEnvString("STATIC_DATA", "json/")
	ds, err := dataset.Load(ctx, staticData)
	if err != nil {
		logger.Fatal("Failed to load dataset caches", "dir", staticData, "err", err)
	}

	sparqlStore := sparqlstore.NewStore(sparqlstore.NewStoreParams{
		Client:              metrics.InstrumentQuerier(client),
		ReferenceServiceURL: referenceURL,
		Lang:                "pt",
	})

	startYear := util.GetEnvInt("START_YEAR", 1994)
	endYear := util.GetEnvInt("END_YEAR", 2022)

	queryService := query.NewService(query.NewServiceParams{
		Directory: ds,
		Store:     sparqlStore,
		StartYear: startYear,
		EndYear:   endYear,
	})
	queryService.OnCacheHit = metrics.CacheHit
	queryService.OnCacheMiss = metrics.CacheMiss

	app := &mid.App{
		Store:     sparqlStore,
		Dataset:   ds,
		Query:     queryService,
		Stats:     stats.NewEngine(sparqlStore, ds),
		StartYear: startYear,
		EndYear:   endYear,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8000")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
