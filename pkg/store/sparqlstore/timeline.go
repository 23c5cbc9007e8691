package sparqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// Timeline returns every stored relation row involving any of the given
// personalities, ordered by date descending. Post-filters keep rows among
// the selected set only, or rows carrying a sentiment label only.
func (s *Store) Timeline(ctx context.Context, wikiIDs []string, opts store.TimelineOptions) ([]store.TimelineEntry, error) {
	if err := requireWikiIDs(wikiIDs); err != nil {
		return nil, err
	}
	if len(wikiIDs) == 0 {
		return nil, nil
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?arquivo_doc ?date ?title ?rel_type ?ent1 ?ent1_str ?ent2 ?ent2_str
    WHERE {
      {
        VALUES ?ent1 { %[1]s }
        ?rel politiquices:ent1 ?ent1.
      }
      UNION
      {
        VALUES ?ent2 { %[1]s }
        ?rel politiquices:ent2 ?ent2.
      }
      ?rel politiquices:type ?rel_type;
           politiquices:ent1 ?ent1;
           politiquices:ent2 ?ent2;
           politiquices:ent1_str ?ent1_str;
           politiquices:ent2_str ?ent2_str;
           politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:title ?title;
                   dc:date ?date.
    }
    ORDER BY DESC(?date)`, valuesBlock(wikiIDs))

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(wikiIDs))
	for _, id := range wikiIDs {
		selected[id] = true
	}

	entries := make([]store.TimelineEntry, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		relType := row.ValueOr("rel_type", "")
		ent1 := sparql.LastSegment(row.ValueOr("ent1", ""))
		ent2 := sparql.LastSegment(row.ValueOr("ent2", ""))
		if opts.OnlyAmongSelected && (!selected[ent1] || !selected[ent2]) {
			continue
		}
		if opts.OnlySentiment && !strings.Contains(relType, "opposes") && !strings.Contains(relType, "supports") {
			continue
		}
		entries = append(entries, store.TimelineEntry{
			URL:      row.ValueOr("arquivo_doc", ""),
			Date:     row.ValueOr("date", ""),
			Title:    row.ValueOr("title", ""),
			RelType:  relType,
			Ent1ID:   ent1,
			Ent1Name: row.ValueOr("ent1_str", ""),
			Ent2ID:   ent2,
			Ent2Name: row.ValueOr("ent2_str", ""),
		})
	}
	return entries, nil
}
