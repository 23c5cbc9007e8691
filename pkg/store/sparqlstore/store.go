// Package sparqlstore implements store.Store on top of the SPARQL protocol
// client. Query text is assembled only from validated inputs: wiki ids must
// match ^Q\d+$, relation patterns come from the closed vocabulary in
// pkg/relations, and years are integers.
package sparqlstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/politiquices/politiquices-api/pkg/sparql"
	"github.com/politiquices/politiquices-api/pkg/store"
)

const prefixes = `
    PREFIX politiquices: <http://www.politiquices.pt/>
    PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
    PREFIX dc: <http://purl.org/dc/elements/1.1/>
    PREFIX wd: <http://www.wikidata.org/entity/>
    PREFIX wdt: <http://www.wikidata.org/prop/direct/>
    PREFIX p: <http://www.wikidata.org/prop/>
    PREFIX ps: <http://www.wikidata.org/prop/statement/>
    PREFIX pq: <http://www.wikidata.org/prop/qualifier/>
`

const (
	noImage = "/assets/images/logos/no_picture.jpg"
	// The PS logo is missing from wikidata; the offline job ships it locally.
	psLogo       = "/assets/images/parties/Q847263.png"
	psLogoPartID = "Q847263"
)

var wikiIDRe = regexp.MustCompile(`^Q\d+$`)

// ValidWikiID reports whether id is a well-formed wikidata identifier.
func ValidWikiID(id string) bool {
	return wikiIDRe.MatchString(id)
}

// Store executes the API's graph operations against a SPARQL endpoint pair.
//
// A Store should be created using NewStore.
type Store struct {
	client sparql.Querier
	// serviceURL is the reference dataset's public query URL, spliced into
	// SERVICE blocks of federated queries.
	serviceURL string
	lang       string
}

var _ store.Store = (*Store)(nil)

// NewStoreParams defines the configuration for creating a new Store.
type NewStoreParams struct {
	Client sparql.Querier
	// ReferenceServiceURL is used in SERVICE <...> blocks for federated
	// membership lookups.
	ReferenceServiceURL string
	// Lang filters labels; defaults to "en".
	Lang string
}

// NewStore creates a Store over the given SPARQL client.
func NewStore(params NewStoreParams) *Store {
	lang := params.Lang
	if lang == "" {
		lang = "en"
	}
	return &Store{
		client:     params.Client,
		serviceURL: params.ReferenceServiceURL,
		lang:       lang,
	}
}

func (s *Store) query(ctx context.Context, endpoint sparql.Endpoint, text string) (*sparql.Results, error) {
	results, err := s.client.Query(ctx, endpoint, prefixes+"\n"+text)
	if err != nil {
		return nil, fmt.Errorf("store query failed: %w", err)
	}
	return results, nil
}

func requireWikiID(id string) error {
	if !ValidWikiID(id) {
		return fmt.Errorf("invalid wiki id: %q", id)
	}
	return nil
}

func requireWikiIDs(ids []string) error {
	for _, id := range ids {
		if err := requireWikiID(id); err != nil {
			return err
		}
	}
	return nil
}

// truncate caps s at n bytes; scores are reported with 5 characters of
// precision on the wire.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
