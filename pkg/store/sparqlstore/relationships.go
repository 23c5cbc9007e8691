package sparqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/politiquices/politiquices-api/pkg/relations"
	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store"
)

func relPatterns(relType string) (forward, inverted string, err error) {
	if !relations.IsRequestToken(relType) {
		return "", "", fmt.Errorf("invalid relationship type: %q", relType)
	}
	forward, inverted = relations.QueryPair(relType)
	return forward, inverted, nil
}

// RelationshipsBetweenPersons returns every article connecting the two
// persons under the requested relationship, in both storage orientations.
func (s *Store) RelationshipsBetweenPersons(ctx context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	if err := requireWikiID(q.Ent1); err != nil {
		return nil, err
	}
	if err := requireWikiID(q.Ent2); err != nil {
		return nil, err
	}
	forward, inverted, err := relPatterns(q.RelType)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?ent1 ?ent2 ?arquivo_doc ?date ?title ?score ?rel_type ?ent1_str ?ent2_str
    WHERE {
      {
        ?rel politiquices:ent1 wd:%[1]s;
             politiquices:ent2 wd:%[2]s;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[3]s')
      }
      UNION
      {
        ?rel politiquices:ent2 wd:%[1]s;
             politiquices:ent1 wd:%[2]s;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[4]s')
      }
      ?rel politiquices:ent1 ?ent1;
           politiquices:ent2 ?ent2;
           politiquices:ent1_str ?ent1_str;
           politiquices:ent2_str ?ent2_str;
           politiquices:score ?score;
           politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:title ?title;
                   dc:date ?date.
      FILTER(YEAR(?date) >= %[5]d && YEAR(?date) <= %[6]d)
    }
    ORDER BY ASC(?date)`,
		q.Ent1, q.Ent2, forward, inverted, q.StartYear, q.EndYear)

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}
	return decodeStoredRelationships(results), nil
}

// decodeStoredRelationships maps result rows keeping the storage orientation:
// ids come from the bound ?ent1 and ?ent2 slots, so each id stays paired with
// the name string stored alongside it.
func decodeStoredRelationships(results *sparql.Results) []store.Relationship {
	rels := make([]store.Relationship, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		rels = append(rels, store.Relationship{
			URL:      row.ValueOr("arquivo_doc", ""),
			Date:     row.ValueOr("date", ""),
			Title:    row.ValueOr("title", ""),
			Score:    truncate(row.ValueOr("score", ""), 5),
			RelType:  row.ValueOr("rel_type", ""),
			Ent1ID:   sparql.LastSegment(row.ValueOr("ent1", "")),
			Ent1Name: row.ValueOr("ent1_str", ""),
			Ent2ID:   sparql.LastSegment(row.ValueOr("ent2", "")),
			Ent2Name: row.ValueOr("ent2_str", ""),
		})
	}
	return rels
}

// RelationshipsBetweenPartyAndPerson returns articles connecting any member
// of the party (q.Ent1) with the person (q.Ent2). Membership is resolved
// through a federated lookup on the reference dataset.
func (s *Store) RelationshipsBetweenPartyAndPerson(ctx context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	if err := requireWikiID(q.Ent1); err != nil {
		return nil, err
	}
	if err := requireWikiID(q.Ent2); err != nil {
		return nil, err
	}
	forward, inverted, err := relPatterns(q.RelType)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?ent1 ?ent2 ?ent1_str ?ent2_str ?arquivo_doc ?date ?title ?score ?rel_type
    WHERE {
      {
        ?rel politiquices:ent1 ?member;
             politiquices:ent2 wd:%[2]s;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[3]s')
      }
      UNION
      {
        ?rel politiquices:ent2 ?member;
             politiquices:ent1 wd:%[2]s;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[4]s')
      }
      ?rel politiquices:ent1 ?ent1;
           politiquices:ent2 ?ent2;
           politiquices:ent1_str ?ent1_str;
           politiquices:ent2_str ?ent2_str;
           politiquices:score ?score;
           politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:title ?title;
                   dc:date ?date.
      FILTER(YEAR(?date) >= %[5]d && YEAR(?date) <= %[6]d)
      SERVICE <%[7]s> {
        ?member wdt:P102 wd:%[1]s.
      }
    }
    ORDER BY ASC(?date)`,
		q.Ent1, q.Ent2, forward, inverted, q.StartYear, q.EndYear, s.serviceURL)

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}
	return decodeStoredRelationships(results), nil
}

// RelationshipsBetweenPersonAndParty returns articles connecting the person
// (q.Ent1) with any member of the party (q.Ent2).
func (s *Store) RelationshipsBetweenPersonAndParty(ctx context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	if err := requireWikiID(q.Ent1); err != nil {
		return nil, err
	}
	if err := requireWikiID(q.Ent2); err != nil {
		return nil, err
	}
	forward, inverted, err := relPatterns(q.RelType)
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?ent1 ?ent2 ?ent1_str ?ent2_str ?arquivo_doc ?date ?title ?score ?rel_type
    WHERE {
      {
        ?rel politiquices:ent1 wd:%[1]s;
             politiquices:ent2 ?member;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[3]s')
      }
      UNION
      {
        ?rel politiquices:ent2 wd:%[1]s;
             politiquices:ent1 ?member;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[4]s')
      }
      ?rel politiquices:ent1 ?ent1;
           politiquices:ent2 ?ent2;
           politiquices:ent1_str ?ent1_str;
           politiquices:ent2_str ?ent2_str;
           politiquices:score ?score;
           politiquices:url ?arquivo_doc.
      ?arquivo_doc dc:title ?title;
                   dc:date ?date.
      FILTER(YEAR(?date) >= %[5]d && YEAR(?date) <= %[6]d)
      SERVICE <%[7]s> {
        ?member wdt:P102 wd:%[2]s.
      }
    }
    ORDER BY ASC(?date)`,
		q.Ent1, q.Ent2, forward, inverted, q.StartYear, q.EndYear, s.serviceURL)

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}
	return decodeStoredRelationships(results), nil
}

// RelationshipsBetweenParties returns articles connecting members of one
// party with members of another. Both member sets are resolved upfront and
// spliced into the query as VALUES blocks.
func (s *Store) RelationshipsBetweenParties(ctx context.Context, membersA, membersB []string, relType string, startYear, endYear int) ([]store.Relationship, error) {
	if err := requireWikiIDs(membersA); err != nil {
		return nil, err
	}
	if err := requireWikiIDs(membersB); err != nil {
		return nil, err
	}
	forward, inverted, err := relPatterns(relType)
	if err != nil {
		return nil, err
	}
	if len(membersA) == 0 || len(membersB) == 0 {
		return nil, nil
	}

	text := fmt.Sprintf(`
    SELECT DISTINCT ?person_party_a ?ent1_str ?person_party_b ?ent2_str ?arquivo_doc ?date ?title ?score ?rel_type
    WHERE {
      {
        VALUES ?person_party_a { %[1]s }
        VALUES ?person_party_b { %[2]s }
        ?rel politiquices:ent1 ?person_party_a;
             politiquices:ent2 ?person_party_b;
             politiquices:ent1_str ?ent1_str;
             politiquices:ent2_str ?ent2_str;
             politiquices:score ?score;
             politiquices:url ?arquivo_doc;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[3]s')
      }
      UNION
      {
        VALUES ?person_party_a { %[2]s }
        VALUES ?person_party_b { %[1]s }
        ?rel politiquices:ent1 ?person_party_a;
             politiquices:ent2 ?person_party_b;
             politiquices:ent1_str ?ent1_str;
             politiquices:ent2_str ?ent2_str;
             politiquices:score ?score;
             politiquices:url ?arquivo_doc;
             politiquices:type ?rel_type.
        FILTER REGEX(?rel_type, '%[4]s')
      }
      ?arquivo_doc dc:title ?title;
                   dc:date ?date.
      FILTER(YEAR(?date) >= %[5]d && YEAR(?date) <= %[6]d)
    }
    ORDER BY ASC(?date)`,
		valuesBlock(membersA), valuesBlock(membersB), forward, inverted, startYear, endYear)

	results, err := s.query(ctx, sparql.EndpointFacts, text)
	if err != nil {
		return nil, err
	}

	rels := make([]store.Relationship, 0, len(results.Results.Bindings))
	for _, row := range results.Results.Bindings {
		rels = append(rels, store.Relationship{
			URL:      row.ValueOr("arquivo_doc", ""),
			Date:     row.ValueOr("date", ""),
			Title:    row.ValueOr("title", ""),
			Score:    truncate(row.ValueOr("score", ""), 5),
			RelType:  row.ValueOr("rel_type", ""),
			Ent1ID:   sparql.LastSegment(row.ValueOr("person_party_a", "")),
			Ent1Name: row.ValueOr("ent1_str", ""),
			Ent2ID:   sparql.LastSegment(row.ValueOr("person_party_b", "")),
			Ent2Name: row.ValueOr("ent2_str", ""),
		})
	}
	return rels, nil
}

// valuesBlock renders validated wiki ids as a space-separated wd: term list.
func valuesBlock(ids []string) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("wd:")
		b.WriteString(id)
	}
	return b.String()
}
