package routes

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/server/middleware"
	"github.com/politiquices/politiquices-api/pkg/logger"
	"github.com/politiquices/politiquices-api/pkg/relations"
)

type wikiIDParam struct {
	WikiID string `param:"wiki_id" validate:"required,wiki_id"`
}

// GetPersonRelationshipsHandler returns every relationship of one person,
// grouped by viewpoint kind plus the merged "all" and "sentiment" views.
func GetPersonRelationshipsHandler(c echo.Context) error {
	params := new(wikiIDParam)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App

	facts, err := app.Store.PersonFacts(c.Request().Context(), params.WikiID)
	if err != nil {
		return writeStoreError(c, err)
	}

	return c.JSON(http.StatusOK, relations.Project(params.WikiID, facts, app.Dataset))
}

// GetRelationshipsByYearHandler returns, per relation direction, the yearly
// article counts for one person.
func GetRelationshipsByYearHandler(c echo.Context) error {
	params := new(wikiIDParam)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	tokens := []string{
		"ent1_opposes_ent2",
		"ent1_supports_ent2",
		"ent2_opposes_ent1",
		"ent2_supports_ent1",
		"other",
	}
	byType := make(map[string]map[string]int, len(tokens))
	for _, token := range tokens {
		counts, err := app.Store.PersonYearlyCounts(ctx, params.WikiID, token)
		if err != nil {
			return writeStoreError(c, err)
		}
		byType[token] = counts
	}

	return c.JSON(http.StatusOK, byType)
}

type relatedEntry struct {
	WikiID     string `json:"wiki_id"`
	Name       string `json:"name"`
	NrArticles int    `json:"nr_articles"`
}

type topRelatedResponse struct {
	WhoPersonOpposes  []relatedEntry `json:"who_person_opposes"`
	WhoPersonSupports []relatedEntry `json:"who_person_supports"`
	WhoOpposesPerson  []relatedEntry `json:"who_opposes_person"`
	WhoSupportsPerson []relatedEntry `json:"who_supports_person"`
}

// GetTopRelatedHandler ranks the persons most often related with one person,
// split by direction and sentiment.
func GetTopRelatedHandler(c echo.Context) error {
	params := new(wikiIDParam)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App

	counts, err := app.Store.TopRelated(c.Request().Context(), params.WikiID)
	if err != nil {
		return writeStoreError(c, err)
	}

	resolve := func(byID map[string]int) []relatedEntry {
		entries := make([]relatedEntry, 0, len(byID))
		for id, count := range byID {
			meta, ok := app.Dataset.Lookup(id)
			if !ok {
				logger.Warn("No metadata for related person, dropping", "wiki_id", id)
				continue
			}
			entries = append(entries, relatedEntry{WikiID: id, Name: meta.Name, NrArticles: count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].NrArticles != entries[j].NrArticles {
				return entries[i].NrArticles > entries[j].NrArticles
			}
			return entries[i].WikiID < entries[j].WikiID
		})
		return entries
	}

	return c.JSON(http.StatusOK, topRelatedResponse{
		WhoPersonOpposes:  resolve(counts.WhoPersonOpposes),
		WhoPersonSupports: resolve(counts.WhoPersonSupports),
		WhoOpposesPerson:  resolve(counts.WhoOpposesPerson),
		WhoSupportsPerson: resolve(counts.WhoSupportsPerson),
	})
}

// GetRelationshipHandler answers a pairwise relationship query over the
// default year window.
func GetRelationshipHandler(c echo.Context) error {
	type relationshipParams struct {
		Ent1    string `param:"ent1" validate:"required,wiki_id"`
		RelType string `param:"rel_type" validate:"required"`
		Ent2    string `param:"ent2" validate:"required,wiki_id"`
	}

	params := new(relationshipParams)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App

	rels, err := app.Query.Between(c.Request().Context(), params.Ent1, params.Ent2, params.RelType, 0, 0)
	if err != nil {
		return writeStoreError(c, err)
	}
	return c.JSON(http.StatusOK, rels)
}
