package server

import (
	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/metrics"
	"github.com/politiquices/politiquices-api/internal/server/routes"
	"github.com/politiquices/politiquices-api/pkg/store"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"service": "politiquices-api"})
	})

	// Personality routes
	e.GET("/personality/:wiki_id", routes.GetPersonalityHandler)
	e.GET("/personality/relationships/:wiki_id", routes.GetPersonRelationshipsHandler)
	e.GET("/personality/relationships_by_year/:wiki_id", routes.GetRelationshipsByYearHandler)
	e.GET("/personality/top_related_personalities/:wiki_id", routes.GetTopRelatedHandler)

	// Relationship query routes
	e.GET("/relationships/:ent1/:rel_type/:ent2", routes.GetRelationshipHandler)
	e.GET("/queries", routes.QueriesHandler)

	// Listing routes
	e.GET("/parties/", routes.GetPartiesHandler)
	e.GET("/personalities/", routes.GetPersonalitiesHandler)
	e.GET("/persons/", routes.GetPersonsHandler)
	e.GET("/persons_and_parties/", routes.GetPersonsAndPartiesHandler)

	// Faceted personality listings
	e.GET("/personalities/educated_at/:wiki_id", routes.PersonalitiesByHandler(store.FacetEducation))
	e.GET("/personalities/occupation/:wiki_id", routes.PersonalitiesByHandler(store.FacetOccupation))
	e.GET("/personalities/public_office/:wiki_id", routes.PersonalitiesByHandler(store.FacetPublicOffice))
	e.GET("/personalities/government/:wiki_id", routes.PersonalitiesByHandler(store.FacetGovernment))
	e.GET("/personalities/assembly/:wiki_id", routes.PersonalitiesByHandler(store.FacetAssembly))
	e.GET("/personalities/party/:wiki_id", routes.PersonalitiesByHandler(store.FacetParty))

	// Timeline and statistics
	e.GET("/timeline/", routes.GetTimelineHandler)
	e.GET("/stats", routes.GetStatsHandler)
	e.GET("/metrics", metrics.Handler())
}
