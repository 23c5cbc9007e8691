// Package relations implements the relationship vocabulary of the politiquices
// graph: the closed set of stored directional labels, the two inversion
// operations used to match both storage orientations, and the projection of
// raw store rows into viewpoint-normalized records.
package relations

import (
	"fmt"
	"regexp"
)

// Label is a stored relation label. The store persists each fact under one of
// the directional labels below; a fact between A and B stored as
// ent1_X_ent2 (ent1=A, ent2=B) means the same as ent2_X_ent1 (ent1=B, ent2=A).
type Label string

const (
	Ent1OpposesEnt2  Label = "ent1_opposes_ent2"
	Ent2OpposesEnt1  Label = "ent2_opposes_ent1"
	Ent1SupportsEnt2 Label = "ent1_supports_ent2"
	Ent2SupportsEnt1 Label = "ent2_supports_ent1"
	Other            Label = "other"

	// Legacy labels still present in old snapshots. Deprecated: no new facts
	// are written with these.
	MutualAgreement  Label = "mutual_agreement"
	MutualOpposition Label = "mutual_opposition"
)

// AllSentiment is a request sentinel, not a stored label: it matches any
// sentiment-carrying label and excludes "other".
const AllSentiment = "all_sentiment"

var directionalRe = regexp.MustCompile(`^ent[12]_(\w+)_ent[12]$`)

// requestTokens is the closed set accepted on relationship routes.
var requestTokens = map[string]bool{
	string(Ent1OpposesEnt2):  true,
	string(Ent2OpposesEnt1):  true,
	string(Ent1SupportsEnt2): true,
	string(Ent2SupportsEnt1): true,
	string(Other):            true,
	AllSentiment:             true,
}

// IsRequestToken reports whether token is accepted as a relation selector on
// the HTTP surface.
func IsRequestToken(token string) bool {
	return requestTokens[token]
}

// Invert swaps the storage orientation of a directional label:
// ent1_X_ent2 becomes ent2_X_ent1 and vice versa.
//
// Invert panics on tokens that do not match ent[12]_<word>_ent[12]. A
// malformed label here means corrupted data or a caller bug, never user
// input, and must not be masked.
func Invert(label Label) Label {
	match := directionalRe.FindStringSubmatch(string(label))
	if match == nil {
		panic(fmt.Sprintf("relations: not a directional label: %q", label))
	}
	verb := match[1]
	if label[:4] == "ent1" {
		return Label("ent2_" + verb + "_ent1")
	}
	return Label("ent1_" + verb + "_ent2")
}

// QueryPair derives the (forward, inverted) regex patterns a two-sided pair
// query filters on, one per UNION branch.
//
// This is intentionally NOT Invert: tokens already in ent2-first form are
// self-inverse here, because the pair query searches both anchor slots and a
// second swap would change the matched set. The two operations coexist on
// purpose; do not unify them.
//
// ent1_X_ent2        -> (itself, ent2_X_ent1)
// ent2_X_ent1        -> (itself, itself)
// all_sentiment      -> both match any opposes/supports label
// anything else      -> both match every label, including "other"
//
// Like Invert, QueryPair panics on ent-prefixed tokens that fail the
// directional pattern.
func QueryPair(token string) (forward, inverted string) {
	if token == AllSentiment {
		return "opposes|supports", "opposes|supports"
	}
	if len(token) >= 4 && (token[:4] == "ent1" || token[:4] == "ent2") {
		match := directionalRe.FindStringSubmatch(token)
		if match == nil {
			panic(fmt.Sprintf("relations: malformed directional token: %q", token))
		}
		if token[:4] == "ent1" {
			return token, "ent2_" + match[1] + "_ent1"
		}
		return token, token
	}
	// Unconstrained: an empty pattern matches every label.
	return "", ""
}
