package sparqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// PartyMembers returns the wiki ids of everyone affiliated with the party.
func (s *Store) PartyMembers(ctx context.Context, partyID string) ([]string, error) {
	if err := requireWikiID(partyID); err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?wiki_id
    WHERE { ?wiki_id wdt:P102 wd:%s. }`, partyID)

	results, err := s.query(ctx, sparql.EndpointReference, text)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		members = append(members, sparql.LastSegment(row.ValueOr("wiki_id", "")))
	}
	return members, nil
}

// facetPaths maps each listing facet to the graph path binding ?wiki_id for
// a given facet value. Position-derived facets go through p:P39 statements.
var facetPaths = map[store.Facet]string{
	store.FacetEducation:    "?wiki_id wdt:P69 wd:%s.",
	store.FacetOccupation:   "?wiki_id wdt:P106 wd:%s.",
	store.FacetParty:        "?wiki_id wdt:P102 wd:%s.",
	store.FacetPublicOffice: "?wiki_id p:P39 ?stmnt. ?stmnt ps:P39 wd:%s.",
	store.FacetGovernment:   "?wiki_id p:P39 ?stmnt. ?stmnt pq:P5054 wd:%s.",
	store.FacetAssembly:     "?wiki_id p:P39 ?stmnt. ?stmnt pq:P2937 wd:%s.",
}

// PersonalitiesBy lists every personality holding the given facet value,
// e.g. everyone educated at a school or affiliated with a party.
func (s *Store) PersonalitiesBy(ctx context.Context, facet store.Facet, wikiID string) ([]store.Personality, error) {
	if err := requireWikiID(wikiID); err != nil {
		return nil, err
	}
	path, ok := facetPaths[facet]
	if !ok {
		return nil, fmt.Errorf("unknown facet: %q", facet)
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?wiki_id ?label (GROUP_CONCAT(?image; SEPARATOR=";") AS ?images)
    WHERE {
      `+path+`
      ?wiki_id rdfs:label ?label.
      FILTER(LANG(?label) = "%s")
      OPTIONAL { ?wiki_id wdt:P18 ?image. }
    }
    GROUP BY ?wiki_id ?label
    ORDER BY ?label`, wikiID, s.lang)

	results, err := s.query(ctx, sparql.EndpointReference, text)
	if err != nil {
		return nil, err
	}

	personalities := make([]store.Personality, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		image := noImage
		if images := row.ValueOr("images", ""); images != "" {
			image = strings.SplitN(images, ";", 2)[0]
		}
		personalities = append(personalities, store.Personality{
			WikiID:   sparql.LastSegment(row.ValueOr("wiki_id", "")),
			Name:     row.ValueOr("label", ""),
			ImageURL: image,
		})
	}
	return personalities, nil
}
