package sparqlstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// ArticlesPerYear counts processed articles per publication year.
func (s *Store) ArticlesPerYear(ctx context.Context) (map[int]int, error) {
	text := `
    SELECT ?year (COUNT(?arquivo_doc) AS ?nr_articles)
    WHERE {
      ?x politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:date ?date.
    }
    GROUP BY (YEAR(?date) AS ?year)
    ORDER BY ?year`

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	perYear := make(map[int]int, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		year, err := strconv.Atoi(row.ValueOr("year", ""))
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", row.ValueOr("year", ""), err)
		}
		count, err := strconv.Atoi(row.ValueOr("nr_articles", ""))
		if err != nil {
			return nil, fmt.Errorf("bad article count %q: %w", row.ValueOr("nr_articles", ""), err)
		}
		perYear[year] = count
	}
	return perYear, nil
}

// TotalArticles counts all stored articles and the subset tagged with a
// sentiment relation.
func (s *Store) TotalArticles(ctx context.Context) (all int, withSentiment int, err error) {
	all, err = s.countQuery(ctx, `
    SELECT (COUNT(?x) AS ?count)
    WHERE { ?x politiquices:url ?y. }`)
	if err != nil {
		return 0, 0, err
	}

	withSentiment, err = s.countQuery(ctx, `
    SELECT (COUNT(?rel) AS ?count)
    WHERE {
      ?rel politiquices:type ?rel_type.
      FILTER REGEX(?rel_type, 'opposes|supports')
    }`)
	if err != nil {
		return 0, 0, err
	}
	return all, withSentiment, nil
}

// PersonsCount counts distinct persons appearing in any stored relation.
func (s *Store) PersonsCount(ctx context.Context) (int, error) {
	return s.countQuery(ctx, `
    SELECT (COUNT(DISTINCT ?person) AS ?count)
    WHERE {
      { ?rel politiquices:ent1 ?person. } UNION { ?rel politiquices:ent2 ?person. }
    }`)
}

func (s *Store) countQuery(ctx context.Context, text string) (int, error) {
	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return 0, err
	}
	row := results.First()
	if row == nil {
		return 0, fmt.Errorf("count query returned no rows")
	}
	n, err := strconv.Atoi(row.ValueOr("count", ""))
	if err != nil {
		return 0, fmt.Errorf("bad count %q: %w", row.ValueOr("count", ""), err)
	}
	return n, nil
}

// ArticleCountsByYearType counts tagged articles grouped by relation label
// and publication year. The outer key is the stored relation label, the
// inner key the year as text.
func (s *Store) ArticleCountsByYearType(ctx context.Context) (map[string]map[string]int, error) {
	text := `
    SELECT ?rel_type ?year (COUNT(?arquivo_doc) AS ?nr_articles)
    WHERE {
      ?rel politiquices:type ?rel_type;
           politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:date ?date.
    }
    GROUP BY ?rel_type (YEAR(?date) AS ?year)
    ORDER BY ?year`

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	byType := map[string]map[string]int{}
	for _, row := range results.Results.Bindings {
		relType := row.ValueOr("rel_type", "")
		count, err := strconv.Atoi(row.ValueOr("nr_articles", ""))
		if err != nil {
			return nil, fmt.Errorf("bad article count %q: %w", row.ValueOr("nr_articles", ""), err)
		}
		if byType[relType] == nil {
			byType[relType] = map[string]int{}
		}
		byType[relType][row.ValueOr("year", "")] = count
	}
	return byType, nil
}

// PersonArticleFreq ranks persons by how many sentiment-tagged articles they
// participate in, most frequent first.
func (s *Store) PersonArticleFreq(ctx context.Context) ([]store.PersonFreq, error) {
	text := `
    SELECT ?person (COUNT(?arquivo_doc) AS ?freq)
    WHERE {
      { ?rel politiquices:ent1 ?person. } UNION { ?rel politiquices:ent2 ?person. }
      ?rel politiquices:type ?rel_type;
           politiquices:url ?arquivo_doc.
      FILTER REGEX(?rel_type, 'opposes|supports')
    }
    GROUP BY ?person
    ORDER BY DESC(?freq)`

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	freqs := make([]store.PersonFreq, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		count, err := strconv.Atoi(row.ValueOr("freq", ""))
		if err != nil {
			return nil, fmt.Errorf("bad frequency %q: %w", row.ValueOr("freq", ""), err)
		}
		freqs = append(freqs, store.PersonFreq{
			WikiID: sparql.LastSegment(row.ValueOr("person", "")),
			Count:  count,
		})
	}
	return freqs, nil
}

// CoOccurrences ranks person pairs by how many sentiment-tagged articles
// mention both. Pairs may come back in both orientations; symmetric
// deduplication is left to the statistics engine.
func (s *Store) CoOccurrences(ctx context.Context) ([]store.CoOccurrence, error) {
	text := `
    SELECT ?person_a ?person_b (COUNT(?arquivo_doc) AS ?freq)
    WHERE {
      ?rel politiquices:ent1 ?person_a;
           politiquices:ent2 ?person_b;
           politiquices:type ?rel_type;
           politiquices:url ?arquivo_doc.
      FILTER REGEX(?rel_type, 'opposes|supports')
    }
    GROUP BY ?person_a ?person_b
    ORDER BY DESC(?freq)`

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	pairs := make([]store.CoOccurrence, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		count, err := strconv.Atoi(row.ValueOr("freq", ""))
		if err != nil {
			return nil, fmt.Errorf("bad frequency %q: %w", row.ValueOr("freq", ""), err)
		}
		pairs = append(pairs, store.CoOccurrence{
			PersonA: sparql.LastSegment(row.ValueOr("person_a", "")),
			PersonB: sparql.LastSegment(row.ValueOr("person_b", "")),
			Count:   count,
		})
	}
	return pairs, nil
}
