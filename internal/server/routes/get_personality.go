package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/politiquices/politiquices-api/internal/dataset"
	"github.com/politiquices/politiquices-api/internal/server/middleware"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// chartData is the per-year relationship activity of one person, aligned on
// the Years axis.
type chartData struct {
	Years       []int `json:"years"`
	Opposes     []int `json:"opposes"`
	Supports    []int `json:"supports"`
	OpposedBy   []int `json:"opposed_by"`
	SupportedBy []int `json:"supported_by"`
}

type personalityResponse struct {
	*store.Person
	Chart chartData `json:"chart"`
}

func GetPersonalityHandler(c echo.Context) error {
	type personalityParams struct {
		WikiID string `param:"wiki_id" validate:"required,wiki_id"`
	}

	params := new(personalityParams)
	if err := c.Bind(params); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(params); err != nil {
		return badRequest(c)
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	person, err := app.Store.PersonProfile(ctx, params.WikiID)
	if err != nil {
		return writeStoreError(c, err)
	}

	// Serve the locally cached copies of the remote images.
	person.ImageURL = dataset.LocalPersonImage(person.WikiID, person.ImageURL)
	for i, party := range person.Parties {
		person.Parties[i].ImageURL = dataset.LocalPartyLogo(party.WikiID, party.ImageURL)
	}

	chart, err := relationshipChart(c, params.WikiID)
	if err != nil {
		return writeStoreError(c, err)
	}

	return c.JSON(http.StatusOK, personalityResponse{Person: person, Chart: chart})
}

// relationshipChart assembles the four per-year series of the profile chart.
// The person is anchored at the stored ent1 slot, so ent2-prefixed labels
// mean the other participant acts on them.
func relationshipChart(c echo.Context, wikiID string) (chartData, error) {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	series := map[string]map[string]int{}
	tokens := []string{
		"ent1_opposes_ent2",
		"ent1_supports_ent2",
		"ent2_opposes_ent1",
		"ent2_supports_ent1",
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]map[string]int, len(tokens))
	for i, token := range tokens {
		i, token := i, token
		g.Go(func() (err error) {
			results[i], err = app.Store.PersonYearlyCounts(gctx, wikiID, token)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return chartData{}, err
	}
	for i, token := range tokens {
		series[token] = results[i]
	}

	chart := chartData{}
	for year := app.StartYear; year <= app.EndYear; year++ {
		key := strconv.Itoa(year)
		chart.Years = append(chart.Years, year)
		chart.Opposes = append(chart.Opposes, series["ent1_opposes_ent2"][key])
		chart.Supports = append(chart.Supports, series["ent1_supports_ent2"][key])
		chart.OpposedBy = append(chart.OpposedBy, series["ent2_opposes_ent1"][key])
		chart.SupportedBy = append(chart.SupportedBy, series["ent2_supports_ent1"][key])
	}
	return chart, nil
}
