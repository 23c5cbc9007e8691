package sparql

import "strings"

// Term is a single RDF term inside a result row, as encoded by the SPARQL 1.1
// JSON results format.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding is one result row: a mapping from variable name to term. Variables
// bound inside OPTIONAL blocks are simply absent from the map when unmatched,
// never present with a null value.
type Binding map[string]Term

// Value returns the raw value bound to name and whether it was present.
func (b Binding) Value(name string) (string, bool) {
	term, ok := b[name]
	if !ok {
		return "", false
	}
	return term.Value, true
}

// ValueOr returns the value bound to name, or fallback when absent.
func (b Binding) ValueOr(name, fallback string) string {
	if value, ok := b.Value(name); ok {
		return value
	}
	return fallback
}

// ID returns the last path segment of the URI bound to name. Wikidata entity
// URIs carry the identifier as their final segment (…/entity/Q1234).
func (b Binding) ID(name string) (string, bool) {
	value, ok := b.Value(name)
	if !ok {
		return "", false
	}
	return LastSegment(value), true
}

// Results is a decoded SPARQL JSON result set.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// First returns the first result row, or nil for an empty result set.
func (r *Results) First() Binding {
	if len(r.Results.Bindings) == 0 {
		return nil
	}
	return r.Results.Bindings[0]
}

// LastSegment strips everything up to and including the final "/" of a URI.
func LastSegment(uri string) string {
	if idx := strings.LastIndex(uri, "/"); idx >= 0 {
		return strings.TrimSpace(uri[idx+1:])
	}
	return strings.TrimSpace(uri)
}
