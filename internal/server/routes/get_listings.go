package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/politiquices/politiquices-api/internal/dataset"
	"github.com/politiquices/politiquices-api/internal/server/middleware"
)

type partyRow struct {
	WikiID          string `json:"wiki_id"`
	Label           string `json:"party_label"`
	Image           string `json:"local_image"`
	Country         string `json:"country"`
	NrPersonalities int    `json:"nr_personalities"`
}

// GetPartiesHandler lists every known party with its locally cached logo.
func GetPartiesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	parties := app.Dataset.Parties()
	rows := make([]partyRow, 0, len(parties))
	for _, party := range parties {
		rows = append(rows, partyRow{
			WikiID:          party.WikiID,
			Label:           party.Label,
			Image:           dataset.LocalPartyLogo(party.WikiID, party.Logo),
			Country:         party.Country,
			NrPersonalities: party.NrPersonalities,
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetPersonalitiesHandler lists every known person sorted by name.
func GetPersonalitiesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Dataset.Personalities())
}

// GetPersonsHandler serves the plain person search listing.
func GetPersonsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Dataset.Persons())
}

// GetPersonsAndPartiesHandler serves the merged search listing.
func GetPersonsAndPartiesHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Dataset.PersonsAndParties())
}
