// Package stats computes the aggregate corpus statistics served on the
// stats endpoint: per-year sentiment buckets, the personality frequency
// ranking and the deduplicated co-occurrence ranking. The snapshot is
// expensive (several full-scan queries), so it is computed lazily on first
// request, concurrent first requests are collapsed, and the result is kept
// for the lifetime of the process. The underlying corpus only changes on
// redeploy.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/politiquices/politiquices-api/pkg/logger"
	"github.com/politiquices/politiquices-api/pkg/relations"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// freqLimit caps the personality frequency ranking.
const freqLimit = 250

// coOccurrenceLimit caps the co-occurrence ranking after deduplication.
const coOccurrenceLimit = 25

// Metadata is the slice of the startup dataset the engine needs: party
// count plus display names for chart labels.
type Metadata interface {
	NrParties() int
	Lookup(id string) (relations.EntityMeta, bool)
}

// YearBucket is one row of the per-year sentiment chart. The JSON keys are
// the Portuguese chart legends.
type YearBucket struct {
	Year       string `json:"year"`
	Opposition int    `json:"oposição"`
	Support    int    `json:"apoio"`
}

// ChartSeries is a label/value pair list for bar charts.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Snapshot is the full aggregate statistics payload.
type Snapshot struct {
	NrParties           int          `json:"nr_parties"`
	NrPersons           int          `json:"nr_persons"`
	NrArticlesSentiment int          `json:"nr_all_articles_sentiment"`
	NrArticles          int          `json:"nr_all_articles"`
	YearValues          []YearBucket `json:"year_values"`
	PersonalityFreq     ChartSeries  `json:"personality_freq"`
	CoOccurrenceLabels  []string     `json:"per_co_occurrence_labels"`
	CoOccurrenceValues  []int        `json:"per_co_occurrence_values"`
}

// Engine owns the cached snapshot.
//
// An Engine should be created using NewEngine.
type Engine struct {
	store store.Store
	meta  Metadata

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewEngine creates a statistics engine over the given store and dataset.
func NewEngine(s store.Store, meta Metadata) *Engine {
	return &Engine{store: s, meta: meta}
}

// Snapshot returns the aggregate statistics, computing them on first call.
// Concurrent first calls share one computation; a failed computation is not
// cached.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	e.mu.RLock()
	cached := e.snapshot
	e.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := e.group.Do("snapshot", func() (any, error) {
		snapshot, err := e.compute(ctx)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		e.snapshot = snapshot
		e.mu.Unlock()
		return snapshot, nil
	})
	if err != nil {
		return nil, fmt.Errorf("computing statistics: %w", err)
	}
	return v.(*Snapshot), nil
}

func (e *Engine) compute(ctx context.Context) (*Snapshot, error) {
	var (
		perYear       map[int]int
		all           int
		withSentiment int
		persons       int
		byYearType    map[string]map[string]int
		freqs         []store.PersonFreq
		pairs         []store.CoOccurrence
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		perYear, err = e.store.ArticlesPerYear(gctx)
		return err
	})
	g.Go(func() (err error) {
		all, withSentiment, err = e.store.TotalArticles(gctx)
		return err
	})
	g.Go(func() (err error) {
		persons, err = e.store.PersonsCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		byYearType, err = e.store.ArticleCountsByYearType(gctx)
		return err
	})
	g.Go(func() (err error) {
		freqs, err = e.store.PersonArticleFreq(gctx)
		return err
	})
	g.Go(func() (err error) {
		pairs, err = e.store.CoOccurrences(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	labels, values := e.frequencySeries(freqs)
	coLabels, coValues := e.coOccurrenceSeries(pairs)

	return &Snapshot{
		NrParties:           e.meta.NrParties(),
		NrPersons:           persons,
		NrArticlesSentiment: withSentiment,
		NrArticles:          all,
		YearValues:          aggregateYearly(perYear, byYearType),
		PersonalityFreq:     ChartSeries{Labels: labels, Values: values},
		CoOccurrenceLabels:  coLabels,
		CoOccurrenceValues:  coValues,
	}, nil
}

// aggregateYearly folds the per-label yearly counts into opposition and
// support buckets. Every year between the corpus's first and last article
// gets a bucket, zero-filled where nothing was tagged. Labels are matched
// by substring so both storage orientations of a sentiment count.
func aggregateYearly(perYear map[int]int, byYearType map[string]map[string]int) []YearBucket {
	if len(perYear) == 0 {
		return nil
	}
	first, last := 0, 0
	for year := range perYear {
		if first == 0 || year < first {
			first = year
		}
		if year > last {
			last = year
		}
	}

	buckets := make([]YearBucket, 0, last-first+1)
	for year := first; year <= last; year++ {
		bucket := YearBucket{Year: strconv.Itoa(year)}
		for label, counts := range byYearType {
			switch {
			case strings.Contains(label, "opposes"):
				bucket.Opposition += counts[bucket.Year]
			case strings.Contains(label, "supports"):
				bucket.Support += counts[bucket.Year]
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// frequencySeries keeps the top entries of the frequency ranking, resolves
// ids to display names and reverses the order so bar charts ascend. Persons
// without cached metadata are logged and dropped.
func (e *Engine) frequencySeries(freqs []store.PersonFreq) ([]string, []int) {
	if len(freqs) > freqLimit {
		freqs = freqs[:freqLimit]
	}

	labels := make([]string, 0, len(freqs))
	values := make([]int, 0, len(freqs))
	for _, f := range freqs {
		meta, ok := e.meta.Lookup(f.WikiID)
		if !ok {
			logger.Warn("No metadata for person, dropping from frequency ranking", "wiki_id", f.WikiID)
			continue
		}
		labels = append(labels, meta.Name)
		values = append(values, f.Count)
	}

	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
		values[i], values[j] = values[j], values[i]
	}
	return labels, values
}

// coOccurrenceSeries merges the two storage orientations of each pair into
// one canonical entry: counts for (A,B) and (B,A) are summed, and the label
// keeps the orientation with the higher count.
func (e *Engine) coOccurrenceSeries(pairs []store.CoOccurrence) ([]string, []int) {
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })

	index := map[string]int{}
	merged := make([]store.CoOccurrence, 0, len(pairs))
	for _, pair := range pairs {
		a, b := pair.PersonA, pair.PersonB
		if b < a {
			a, b = b, a
		}
		key := a + "|" + b
		if i, ok := index[key]; ok {
			merged[i].Count += pair.Count
			continue
		}
		index[key] = len(merged)
		merged = append(merged, pair)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Count > merged[j].Count })

	labels := make([]string, 0, coOccurrenceLimit)
	values := make([]int, 0, coOccurrenceLimit)
	for _, pair := range merged {
		if len(labels) == coOccurrenceLimit {
			break
		}
		metaA, okA := e.meta.Lookup(pair.PersonA)
		metaB, okB := e.meta.Lookup(pair.PersonB)
		if !okA || !okB {
			logger.Warn("No metadata for pair, dropping from co-occurrence ranking", "a", pair.PersonA, "b", pair.PersonB)
			continue
		}
		labels = append(labels, metaA.Name+" / "+metaB.Name)
		values = append(values, pair.Count)
	}
	return labels, values
}
