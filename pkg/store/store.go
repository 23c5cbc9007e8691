// Package store defines the query operations the API needs from the backing
// triple stores. The concrete SPARQL-backed implementation lives in
// store/sparqlstore; handlers and the dispatch service only see this
// interface, which keeps the stores mockable.
package store

import (
	"context"

	"github.com/politiquices/politiquices-api/pkg/relations"
)

// Relationship is one pairwise relationship row, still carrying the stored
// (storage-oriented) relation label. Party-anchored queries preserve the
// underlying person-level label; nothing is synthesized at party level.
type Relationship struct {
	URL         string `json:"arquivo_doc"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Domain      string `json:"domain,omitempty"`
	OriginalURL string `json:"original_url,omitempty"`
	Excerpt     string `json:"paragraph,omitempty"`
	Score       string `json:"score"`
	RelType     string `json:"rel_type"`
	Ent1ID      string `json:"ent1_id"`
	Ent1Name    string `json:"ent1_str"`
	Ent1Image   string `json:"ent1_img,omitempty"`
	Ent2ID      string `json:"ent2_id"`
	Ent2Name    string `json:"ent2_str"`
	Ent2Image   string `json:"ent2_img,omitempty"`
}

// RelationshipQuery carries the parameters of a pairwise relationship lookup.
// Ent1/Ent2 are wiki ids (person or party depending on the operation);
// RelType is a request token; the year range is inclusive and filters
// evidence by publication date.
type RelationshipQuery struct {
	Ent1      string
	Ent2      string
	RelType   string
	StartYear int
	EndYear   int
}

// Element is a labeled wikidata attribute value (office, school, ...).
type Element struct {
	WikiID string `json:"wiki_id"`
	Label  string `json:"label"`
}

// Party is a political party as attached to a person profile.
type Party struct {
	WikiID   string `json:"wiki_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Person is the full profile of a personality from the reference dataset.
type Person struct {
	WikiID      string    `json:"wiki_id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	Parties     []Party   `json:"parties"`
	Positions   []Element `json:"positions"`
	Education   []Element `json:"education"`
	Occupations []Element `json:"occupations"`
	Governments []Element `json:"governments"`
	Assemblies  []Element `json:"assemblies"`
}

// Personality is one entry of a faceted listing (educated at X, member of
// party Y, ...). Image and article count are enriched from the local display
// cache by the caller.
type Personality struct {
	WikiID     string `json:"wiki_id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
	NrArticles int    `json:"nr_articles"`
}

// Facet selects which wikidata attribute a personality listing is keyed on.
type Facet string

const (
	FacetEducation    Facet = "education"
	FacetOccupation   Facet = "occupation"
	FacetPublicOffice Facet = "public_office"
	FacetGovernment   Facet = "government"
	FacetAssembly     Facet = "assembly"
	FacetParty        Facet = "party"
)

// RelatedCounts aggregates, for one person, how often each other person
// appears with them as actor or target of a sentiment relation.
type RelatedCounts struct {
	WhoPersonOpposes  map[string]int `json:"who_person_opposes"`
	WhoPersonSupports map[string]int `json:"who_person_supports"`
	WhoOpposesPerson  map[string]int `json:"who_opposes_person"`
	WhoSupportsPerson map[string]int `json:"who_supports_person"`
}

// PersonFreq is one row of the person-mention frequency ranking.
type PersonFreq struct {
	WikiID string
	Count  int
}

// CoOccurrence is one ranked pair of persons mentioned in the same articles,
// possibly present in both orientations; symmetric deduplication is the
// statistics engine's job.
type CoOccurrence struct {
	PersonA string
	PersonB string
	Count   int
}

// TimelineEntry is one raw timeline row for a set of personalities.
type TimelineEntry struct {
	URL      string `json:"arquivo_doc"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	RelType  string `json:"rel_type"`
	Ent1ID   string `json:"ent1_id"`
	Ent1Name string `json:"ent1_str"`
	Ent2ID   string `json:"ent2_id"`
	Ent2Name string `json:"ent2_str"`
}

// TimelineOptions are the post-filters of a timeline lookup.
type TimelineOptions struct {
	// OnlyAmongSelected keeps only rows where both participants belong to
	// the queried id set.
	OnlyAmongSelected bool
	// OnlySentiment drops rows tagged "other".
	OnlySentiment bool
}

// Store is the operation-level view of the backing triple stores. All calls
// are blocking I/O, cancellable through ctx, and never retried internally.
type Store interface {
	// Facts dataset.
	PersonFacts(ctx context.Context, wikiID string) ([]relations.Fact, error)
	PersonYearlyCounts(ctx context.Context, wikiID, relType string) (map[string]int, error)
	TopRelated(ctx context.Context, wikiID string) (*RelatedCounts, error)
	RelationshipsBetweenPersons(ctx context.Context, q RelationshipQuery) ([]Relationship, error)
	RelationshipsBetweenPartyAndPerson(ctx context.Context, q RelationshipQuery) ([]Relationship, error)
	RelationshipsBetweenPersonAndParty(ctx context.Context, q RelationshipQuery) ([]Relationship, error)
	RelationshipsBetweenParties(ctx context.Context, membersA, membersB []string, relType string, startYear, endYear int) ([]Relationship, error)
	Timeline(ctx context.Context, wikiIDs []string, opts TimelineOptions) ([]TimelineEntry, error)

	// Facts dataset, full-scan statistics.
	ArticlesPerYear(ctx context.Context) (map[int]int, error)
	TotalArticles(ctx context.Context) (all int, withSentiment int, err error)
	PersonsCount(ctx context.Context) (int, error)
	ArticleCountsByYearType(ctx context.Context) (map[string]map[string]int, error)
	PersonArticleFreq(ctx context.Context) ([]PersonFreq, error)
	CoOccurrences(ctx context.Context) ([]CoOccurrence, error)

	// Reference dataset.
	PartyMembers(ctx context.Context, partyID string) ([]string, error)
	PersonProfile(ctx context.Context, wikiID string) (*Person, error)
	PersonalitiesBy(ctx context.Context, facet Facet, wikiID string) ([]Personality, error)
}
