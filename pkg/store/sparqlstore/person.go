package sparqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/politiquices/politiquices-api/pkg/relations"
	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// PersonFacts returns every stored relation row the person participates in,
// ordered by article date, still in storage orientation.
func (s *Store) PersonFacts(ctx context.Context, wikiID string) ([]relations.Fact, error) {
	if err := requireWikiID(wikiID); err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?arquivo_doc ?date ?title ?description ?creator ?publisher ?score ?rel_type ?ent1 ?ent1_str ?ent2 ?ent2_str
    WHERE {
      { ?rel politiquices:ent1 wd:%[1]s } UNION { ?rel politiquices:ent2 wd:%[1]s }
      ?rel politiquices:type ?rel_type;
           politiquices:score ?score;
           politiquices:ent1 ?ent1;
           politiquices:ent2 ?ent2;
           politiquices:ent1_str ?ent1_str;
           politiquices:ent2_str ?ent2_str;
           politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:title ?title;
                   dc:description ?description;
                   dc:creator ?creator;
                   dc:publisher ?publisher;
                   dc:date ?date.
    }
    ORDER BY ASC(?date)`, wikiID)

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	facts := make([]relations.Fact, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		facts = append(facts, relations.Fact{
			Ent1ID:    sparql.LastSegment(row.ValueOr("ent1", "")),
			Ent1Label: row.ValueOr("ent1_str", ""),
			Ent2ID:    sparql.LastSegment(row.ValueOr("ent2", "")),
			Ent2Label: row.ValueOr("ent2_str", ""),
			Label:     relations.Label(row.ValueOr("rel_type", "")),
			Score:     truncate(row.ValueOr("score", ""), 5),
			Article: relations.Article{
				URL:         row.ValueOr("arquivo_doc", ""),
				Title:       row.ValueOr("title", ""),
				Domain:      row.ValueOr("creator", ""),
				OriginalURL: row.ValueOr("publisher", ""),
				Excerpt:     row.ValueOr("description", ""),
				Date:        row.ValueOr("date", ""),
			},
		})
	}
	return facts, nil
}

// PersonYearlyCounts counts, per publication year, the articles where the
// person is the actor (stored ent1) of the given relation label.
func (s *Store) PersonYearlyCounts(ctx context.Context, wikiID, relType string) (map[string]int, error) {
	if err := requireWikiID(wikiID); err != nil {
		return nil, err
	}
	if !relations.IsRequestToken(relType) {
		return nil, fmt.Errorf("invalid relationship type: %q", relType)
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?year (COUNT(?arquivo_doc) AS ?nr_articles)
    WHERE {
      ?rel politiquices:ent1 wd:%[1]s;
           politiquices:type ?rel_type;
           politiquices:url ?arquivo_doc.
      FILTER (?rel_type = "%[2]s")
      ?arquivo_doc dc:date ?date.
    }
    GROUP BY (YEAR(?date) AS ?year)
    ORDER BY ?year`, wikiID, relType)

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		n, err := strconv.Atoi(row.ValueOr("nr_articles", ""))
		if err != nil {
			return nil, fmt.Errorf("bad article count %q: %w", row.ValueOr("nr_articles", ""), err)
		}
		counts[row.ValueOr("year", "")] = n
	}
	return counts, nil
}

// TopRelated aggregates, for one person, how often each other person appears
// as target or actor of a sentiment relation with them. Each scan unions both
// storage orientations: the person acts either as stored ent1 under ent1-label
// relations or as stored ent2 under ent2-label relations, and is targeted in
// the mirrored combinations.
func (s *Store) TopRelated(ctx context.Context, wikiID string) (*store.RelatedCounts, error) {
	if err := requireWikiID(wikiID); err != nil {
		return nil, err
	}

	counts := &store.RelatedCounts{
		WhoPersonOpposes:  map[string]int{},
		WhoPersonSupports: map[string]int{},
		WhoOpposesPerson:  map[string]int{},
		WhoSupportsPerson: map[string]int{},
	}

	asActor := fmt.Sprintf(`
    SELECT ?rel_type ?other
    WHERE {
      {
        ?rel politiquices:ent1 wd:%[1]s;
             politiquices:ent2 ?other;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '^ent1_opposes|^ent1_supports')
      }
      UNION
      {
        ?rel politiquices:ent2 wd:%[1]s;
             politiquices:ent1 ?other;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '^ent2_opposes|^ent2_supports')
      }
    }`, wikiID)

	results, err := s.query(ctx, sparql.EndpointFacts, asActor)
	if err != nil {
		return nil, err
	}
	for _, row := range results.Results.Bindings {
		other := sparql.LastSegment(row.ValueOr("other", ""))
		if strings.Contains(row.ValueOr("rel_type", ""), "opposes") {
			counts.WhoPersonOpposes[other]++
		} else {
			counts.WhoPersonSupports[other]++
		}
	}

	asTarget := fmt.Sprintf(`
    SELECT ?rel_type ?other
    WHERE {
      {
        ?rel politiquices:ent2 wd:%[1]s;
             politiquices:ent1 ?other;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '^ent1_opposes|^ent1_supports')
      }
      UNION
      {
        ?rel politiquices:ent1 wd:%[1]s;
             politiquices:ent2 ?other;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '^ent2_opposes|^ent2_supports')
      }
    }`, wikiID)

	results, err = s.query(ctx, sparql.EndpointFacts, asTarget)
	if err != nil {
		return nil, err
	}
	for _, row := range results.Results.Bindings {
		other := sparql.LastSegment(row.ValueOr("other", ""))
		if strings.Contains(row.ValueOr("rel_type", ""), "opposes") {
			counts.WhoOpposesPerson[other]++
		} else {
			counts.WhoSupportsPerson[other]++
		}
	}

	return counts, nil
}

// PersonProfile assembles the full wikidata profile of a personality: name,
// image, party affiliations and the detailed attribute lists.
func (s *Store) PersonProfile(ctx context.Context, wikiID string) (*store.Person, error) {
	if err := requireWikiID(wikiID); err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`
    SELECT ?name ?image_url ?political_party_logo ?political_party ?political_party_label
    WHERE {
      wd:%[1]s rdfs:label ?name.
      FILTER(LANG(?name) = "%[2]s")
      OPTIONAL { wd:%[1]s wdt:P18 ?image_url. }
      OPTIONAL {
        wd:%[1]s p:P102 ?political_partyStmnt.
        ?political_partyStmnt ps:P102 ?political_party.
        ?political_party rdfs:label ?political_party_label.
        FILTER(LANG(?political_party_label) = "%[2]s")
        OPTIONAL { ?political_party wdt:P154 ?political_party_logo. }
      }
    }`, wikiID, s.lang)

	results, err := s.query(ctx, sparql.EndpointReference, text)
	if err != nil {
		return nil, err
	}
	if len(results.Results.Bindings) == 0 {
		return nil, fmt.Errorf("no profile for %s", wikiID)
	}

	person := &store.Person{
		WikiID:   wikiID,
		ImageURL: noImage,
	}
	seenParties := map[string]bool{}
	for _, row := range results.Results.Bindings {
		if person.Name == "" {
			person.Name = row.ValueOr("name", "")
		}
		if img := row.ValueOr("image_url", ""); img != "" {
			person.ImageURL = img
		}
		partyID := sparql.LastSegment(row.ValueOr("political_party", ""))
		if partyID == "" || seenParties[partyID] {
			continue
		}
		seenParties[partyID] = true
		logo := row.ValueOr("political_party_logo", "")
		// The PS logo is absent from wikidata; serve the local copy.
		if partyID == psLogoPartID {
			logo = psLogo
		} else if logo == "" {
			logo = noImage
		}
		person.Parties = append(person.Parties, store.Party{
			WikiID:   partyID,
			Name:     row.ValueOr("political_party_label", ""),
			ImageURL: logo,
		})
	}

	person.Occupations, err = s.personElements(ctx, wikiID, "wdt:P106 ?element")
	if err != nil {
		return nil, err
	}
	person.Education, err = s.personElements(ctx, wikiID, "wdt:P69 ?element")
	if err != nil {
		return nil, err
	}
	person.Positions, err = s.personElements(ctx, wikiID, "p:P39 ?stmnt. ?stmnt ps:P39 ?element")
	if err != nil {
		return nil, err
	}
	person.Governments, err = s.personQualifiers(ctx, wikiID, "pq:P5054")
	if err != nil {
		return nil, err
	}
	person.Assemblies, err = s.personQualifiers(ctx, wikiID, "pq:P2937")
	if err != nil {
		return nil, err
	}
	return person, nil
}

// personElements fetches one labeled attribute list, e.g. occupations via
// "wdt:P106 ?element". The path must bind ?element.
func (s *Store) personElements(ctx context.Context, wikiID, path string) ([]store.Element, error) {
	text := fmt.Sprintf(`
    SELECT DISTINCT ?element ?element_label
    WHERE {
      wd:%s %s.
      ?element rdfs:label ?element_label.
      FILTER(LANG(?element_label) = "%s")
    }`, wikiID, path, s.lang)
	return s.decodeElements(ctx, text)
}

// personQualifiers fetches attributes attached as qualifiers of position
// statements, e.g. the legislature (pq:P2937) or cabinet (pq:P5054).
func (s *Store) personQualifiers(ctx context.Context, wikiID, qualifier string) ([]store.Element, error) {
	text := fmt.Sprintf(`
    SELECT DISTINCT ?element ?element_label
    WHERE {
      wd:%s p:P39 ?stmnt.
      ?stmnt %s ?element.
      ?element rdfs:label ?element_label.
      FILTER(LANG(?element_label) = "%s")
    }`, wikiID, qualifier, s.lang)
	return s.decodeElements(ctx, text)
}

func (s *Store) decodeElements(ctx context.Context, text string) ([]store.Element, error) {
	results, err := s.query(ctx, sparql.EndpointReference, text)
	if err != nil {
		return nil, err
	}
	elements := make([]store.Element, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		elements = append(elements, store.Element{
			WikiID: sparql.LastSegment(row.ValueOr("element", "")),
			Label:  row.ValueOr("element_label", ""),
		})
	}
	return elements, nil
}
