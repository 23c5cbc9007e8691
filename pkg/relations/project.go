package relations

import (
	"sort"
	"strings"

	"github.com/politiquices/politiquices-api/pkg/logger"
)

// Article is the evidence document attached to a stored fact.
type Article struct {
	URL         string `json:"arquivo_doc"`
	Title       string `json:"title"`
	Domain      string `json:"domain"`
	OriginalURL string `json:"original_url"`
	Excerpt     string `json:"paragraph"`
	Date        string `json:"date"`
}

// Fact is one raw relation row as returned by the facts store, still in
// storage orientation.
type Fact struct {
	Ent1ID    string
	Ent1Label string
	Ent2ID    string
	Ent2Label string
	Label     Label
	Score     string
	Article   Article
}

// EntityMeta is the display metadata attached to a projected record.
type EntityMeta struct {
	Name     string
	ImageURL string
}

// Directory resolves an entity id to display metadata. Implemented by the
// startup dataset; read-only.
type Directory interface {
	Lookup(id string) (EntityMeta, bool)
}

// Record is a canonical, viewpoint-normalized relationship record. Field
// names keep the wire vocabulary: ent1 is the focus (anchor) entity, ent2
// the other participant.
type Record struct {
	URL         string `json:"arquivo_doc"`
	Title       string `json:"title"`
	Domain      string `json:"domain"`
	OriginalURL string `json:"original_url"`
	Excerpt     string `json:"paragraph"`
	Date        string `json:"date"`
	Score       string `json:"score,omitempty"`
	FocusID     string `json:"ent1_id"`
	FocusImage  string `json:"ent1_img"`
	FocusName   string `json:"ent1_str"`
	OtherID     string `json:"ent2_id"`
	OtherImage  string `json:"ent2_img"`
	OtherName   string `json:"ent2_str"`
	Kind        Kind   `json:"rel_type"`
}

// Grouped holds projected records per kind, plus the two derived views
// under the "all" and "sentiment" keys.
type Grouped map[string][]Record

// groupOrder fixes the order kinds are concatenated into the derived views,
// so ties inside one date resolve deterministically.
var groupOrder = []Kind{
	KindOpposes, KindSupports, KindOpposedBy, KindSupportedBy,
	KindOther, KindOtherBy, KindMutualAgreement,
}

// Project normalizes raw facts against the anchor entity and resolves both
// participants in the directory. Rows whose anchor slot cannot be determined,
// whose label is unknown, or whose participants are missing display metadata
// are logged and dropped; a bad row never fails the whole projection.
func Project(anchor string, facts []Fact, dir Directory) Grouped {
	groups := Grouped{}
	for _, kind := range groupOrder {
		groups[string(kind)] = []Record{}
	}

	for _, fact := range facts {
		var slot Slot
		switch anchor {
		case fact.Ent1ID:
			slot = SlotEnt1
		case fact.Ent2ID:
			slot = SlotEnt2
		default:
			logger.Warn("relation row does not involve anchor", "anchor", anchor, "ent1", fact.Ent1ID, "ent2", fact.Ent2ID)
			continue
		}

		kind, ok := KindFor(fact.Label, slot)
		if !ok {
			logger.Warn("unknown relation label", "label", fact.Label, "slot", int(slot))
			continue
		}

		focusName, otherID, otherName := fact.Ent1Label, fact.Ent2ID, fact.Ent2Label
		if slot == SlotEnt2 {
			focusName, otherID, otherName = fact.Ent2Label, fact.Ent1ID, fact.Ent1Label
		}

		focusMeta, ok := dir.Lookup(anchor)
		if !ok {
			logger.Warn("entity missing from display cache, dropping record", "wiki_id", anchor)
			continue
		}
		otherMeta, ok := dir.Lookup(otherID)
		if !ok {
			logger.Warn("entity missing from display cache, dropping record", "wiki_id", otherID)
			continue
		}

		groups[string(kind)] = append(groups[string(kind)], Record{
			URL:         fact.Article.URL,
			Title:       fact.Article.Title,
			Domain:      fact.Article.Domain,
			OriginalURL: fact.Article.OriginalURL,
			Excerpt:     fact.Article.Excerpt,
			Date:        dateOnly(fact.Article.Date),
			Score:       fact.Score,
			FocusID:     anchor,
			FocusImage:  focusMeta.ImageURL,
			FocusName:   focusName,
			OtherID:     otherID,
			OtherImage:  otherMeta.ImageURL,
			OtherName:   otherName,
			Kind:        kind,
		})
	}

	all := make([]Record, 0)
	sentiment := make([]Record, 0)
	for _, kind := range groupOrder {
		all = append(all, groups[string(kind)]...)
		if IsSentiment(kind) {
			sentiment = append(sentiment, groups[string(kind)]...)
		}
	}
	sortByDateDesc(all)
	sortByDateDesc(sentiment)
	groups["all"] = all
	groups["sentiment"] = sentiment

	return groups
}

// sortByDateDesc orders records reverse-chronologically. The sort must be
// stable: same-date records keep their group concatenation order.
func sortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// dateOnly truncates an xsd:dateTime value to its date part.
func dateOnly(date string) string {
	if idx := strings.Index(date, "T"); idx >= 0 {
		return date[:idx]
	}
	return date
}
