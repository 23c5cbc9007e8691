// Package metrics exposes prometheus instrumentation for the API: query
// counters and latencies per SPARQL endpoint, plus relationship cache
// hit/miss counters.
package metrics

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/politiquices/politiquices-api/pkg/sparql"
)

var (
	sparqlQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "politiquices_sparql_queries_total",
		Help: "SPARQL queries issued, by endpoint and outcome.",
	}, []string{"endpoint", "status"})

	sparqlDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "politiquices_sparql_query_duration_seconds",
		Help:    "SPARQL query round-trip latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "politiquices_relationship_cache_hits_total",
		Help: "Relationship query cache hits.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "politiquices_relationship_cache_misses_total",
		Help: "Relationship query cache misses.",
	})
)

// CacheHit counts one relationship cache hit.
func CacheHit() { cacheHits.Inc() }

// CacheMiss counts one relationship cache miss.
func CacheMiss() { cacheMisses.Inc() }

// Handler serves the prometheus scrape endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

type instrumentedQuerier struct {
	inner sparql.Querier
}

// InstrumentQuerier wraps a SPARQL querier with per-endpoint counters and
// latency histograms.
func InstrumentQuerier(inner sparql.Querier) sparql.Querier {
	return &instrumentedQuerier{inner: inner}
}

func (q *instrumentedQuerier) Query(ctx context.Context, endpoint sparql.Endpoint, query string) (*sparql.Results, error) {
	start := time.Now()
	results, err := q.inner.Query(ctx, endpoint, query)

	name := endpointName(endpoint)
	status := "ok"
	if err != nil {
		status = "error"
	}
	sparqlQueries.WithLabelValues(name, status).Inc()
	sparqlDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	return results, err
}

func endpointName(endpoint sparql.Endpoint) string {
	if endpoint == sparql.EndpointReference {
		return "reference"
	}
	return "facts"
}
