// Package sparql is a minimal client for the SPARQL 1.1 protocol and JSON
// results format. The triple store itself is an external collaborator; this
// package only ships queries to it and decodes rows.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Endpoint selects which dataset a query is executed against.
type Endpoint int

const (
	// EndpointFacts is the politiquices dataset holding the extracted
	// relationship facts and archived article metadata.
	EndpointFacts Endpoint = iota
	// EndpointReference is the wikidata dataset holding entity attributes
	// (labels, images, party membership, offices).
	EndpointReference
)

// Querier executes SPARQL queries against a selected endpoint.
type Querier interface {
	Query(ctx context.Context, endpoint Endpoint, query string) (*Results, error)
}

// Client is an HTTP Querier.
//
// A Client should be created using NewClient.
type Client struct {
	factsURL     string
	referenceURL string
	userAgent    string
	httpClient   *http.Client
}

// NewClientParams defines the configuration for creating a new Client.
type NewClientParams struct {
	// FactsURL is the query endpoint of the politiquices dataset.
	FactsURL string
	// ReferenceURL is the query endpoint of the wikidata dataset.
	ReferenceURL string
	// Timeout bounds a single query round-trip. Defaults to 60s.
	Timeout time.Duration
}

// NewClient creates a Client for the given endpoint pair.
func NewClient(params NewClientParams) *Client {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		factsURL:     params.FactsURL,
		referenceURL: params.ReferenceURL,
		userAgent:    "politiquices-api",
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Query executes a SPARQL query and decodes the JSON result set. The request
// is cancellable through ctx. Failures of the backing store are returned as
// errors and never retried here.
func (c *Client) Query(ctx context.Context, endpoint Endpoint, query string) (*Results, error) {
	endpointURL := c.factsURL
	if endpoint == EndpointReference {
		endpointURL = c.referenceURL
	}

	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building sparql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying sparql endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sparql endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results Results
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding sparql results: %w", err)
	}
	return &results, nil
}

// Ping issues a trivial query against the facts endpoint. Used at startup to
// wait for the store to come up.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, EndpointFacts, "SELECT ?s WHERE { ?s ?p ?o } LIMIT 1")
	return err
}
