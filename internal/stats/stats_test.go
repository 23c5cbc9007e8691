package stats

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/politiquices/politiquices-api/pkg/relations"
	"github.com/politiquices/politiquices-api/pkg/store"
)

type fakeMeta struct {
	parties int
	names   map[string]string
}

func (m *fakeMeta) NrParties() int { return m.parties }
func (m *fakeMeta) Lookup(id string) (relations.EntityMeta, bool) {
	name, ok := m.names[id]
	return relations.EntityMeta{Name: name}, ok
}

type fakeStore struct {
	store.Store

	perYear    map[int]int
	byYearType map[string]map[string]int
	freqs      []store.PersonFreq
	pairs      []store.CoOccurrence
	err        error

	calls atomic.Int32
}

func (f *fakeStore) ArticlesPerYear(context.Context) (map[int]int, error) {
	f.calls.Add(1)
	return f.perYear, f.err
}

func (f *fakeStore) TotalArticles(context.Context) (int, int, error) {
	return 2571, 1023, f.err
}

func (f *fakeStore) PersonsCount(context.Context) (int, error) {
	return 540, f.err
}

func (f *fakeStore) ArticleCountsByYearType(context.Context) (map[string]map[string]int, error) {
	return f.byYearType, f.err
}

func (f *fakeStore) PersonArticleFreq(context.Context) ([]store.PersonFreq, error) {
	return f.freqs, f.err
}

func (f *fakeStore) CoOccurrences(context.Context) ([]store.CoOccurrence, error) {
	return f.pairs, f.err
}

func defaultFake() *fakeStore {
	return &fakeStore{
		perYear: map[int]int{1999: 10, 2000: 20, 2002: 5},
		byYearType: map[string]map[string]int{
			"ent1_opposes_ent2":  {"2000": 1, "1999": 4},
			"ent2_opposes_ent1":  {"2000": 1},
			"ent1_supports_ent2": {"2000": 2},
			"ent2_supports_ent1": {"2000": 1},
			"other":              {"2000": 9},
		},
		freqs: []store.PersonFreq{
			{WikiID: "Q1", Count: 30},
			{WikiID: "Q2", Count: 20},
		},
		pairs: []store.CoOccurrence{
			{PersonA: "Q1", PersonB: "Q2", Count: 12},
			{PersonA: "Q2", PersonB: "Q1", Count: 9},
			{PersonA: "Q1", PersonB: "Q3", Count: 4},
		},
	}
}

func defaultMeta() *fakeMeta {
	return &fakeMeta{
		parties: 14,
		names:   map[string]string{"Q1": "Pessoa Um", "Q2": "Pessoa Dois", "Q3": "Pessoa Tres"},
	}
}

func TestSnapshot_YearBuckets(t *testing.T) {
	e := NewEngine(defaultFake(), defaultMeta())

	snapshot, err := e.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.NrParties != 14 || snapshot.NrPersons != 540 {
		t.Errorf("counts = %d parties / %d persons", snapshot.NrParties, snapshot.NrPersons)
	}
	if snapshot.NrArticles != 2571 || snapshot.NrArticlesSentiment != 1023 {
		t.Errorf("articles = %d/%d", snapshot.NrArticles, snapshot.NrArticlesSentiment)
	}

	// 1999..2002 inclusive, the gap year zero-filled.
	if len(snapshot.YearValues) != 4 {
		t.Fatalf("got %d year buckets, want 4", len(snapshot.YearValues))
	}
	y2000 := snapshot.YearValues[1]
	if y2000.Year != "2000" {
		t.Fatalf("bucket order wrong: %+v", snapshot.YearValues)
	}
	// Both orientations of each sentiment count; "other" does not.
	if y2000.Opposition != 2 || y2000.Support != 3 {
		t.Errorf("2000 = %d opposition / %d support, want 2/3", y2000.Opposition, y2000.Support)
	}
	y2001 := snapshot.YearValues[2]
	if y2001.Opposition != 0 || y2001.Support != 0 {
		t.Errorf("gap year not zero-filled: %+v", y2001)
	}
}

func TestSnapshot_FrequencyReversed(t *testing.T) {
	e := NewEngine(defaultFake(), defaultMeta())

	snapshot, err := e.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	freq := snapshot.PersonalityFreq
	if len(freq.Labels) != 2 {
		t.Fatalf("got %d freq rows, want 2", len(freq.Labels))
	}
	// Charts ascend: least frequent first.
	if freq.Labels[0] != "Pessoa Dois" || freq.Values[0] != 20 {
		t.Errorf("first = %s/%d", freq.Labels[0], freq.Values[0])
	}
	if freq.Labels[1] != "Pessoa Um" || freq.Values[1] != 30 {
		t.Errorf("last = %s/%d", freq.Labels[1], freq.Values[1])
	}
}

func TestSnapshot_FrequencyDropsUnknownPersons(t *testing.T) {
	fs := defaultFake()
	fs.freqs = append([]store.PersonFreq{{WikiID: "Q999", Count: 99}}, fs.freqs...)
	e := NewEngine(fs, defaultMeta())

	snapshot, err := e.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, label := range snapshot.PersonalityFreq.Labels {
		if label == "" {
			t.Fatal("unknown person leaked into the ranking")
		}
	}
	if len(snapshot.PersonalityFreq.Labels) != 2 {
		t.Errorf("got %d rows, want 2", len(snapshot.PersonalityFreq.Labels))
	}
}

func TestSnapshot_CoOccurrenceMergesOrientations(t *testing.T) {
	e := NewEngine(defaultFake(), defaultMeta())

	snapshot, err := e.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.CoOccurrenceLabels) != 2 {
		t.Fatalf("got %d pairs, want 2 (mirrored pair must collapse)", len(snapshot.CoOccurrenceLabels))
	}
	// Both storage orientations count towards the same canonical pair, and
	// the label keeps the higher-counted orientation.
	if snapshot.CoOccurrenceLabels[0] != "Pessoa Um / Pessoa Dois" || snapshot.CoOccurrenceValues[0] != 21 {
		t.Errorf("first pair = %s/%d, want Pessoa Um / Pessoa Dois/21", snapshot.CoOccurrenceLabels[0], snapshot.CoOccurrenceValues[0])
	}
	if snapshot.CoOccurrenceValues[1] != 4 {
		t.Errorf("second pair = %d, want 4", snapshot.CoOccurrenceValues[1])
	}
}

func TestSnapshot_CoOccurrenceSumsSmallMirror(t *testing.T) {
	fs := defaultFake()
	fs.pairs = []store.CoOccurrence{
		{PersonA: "Q1", PersonB: "Q2", Count: 2},
		{PersonA: "Q2", PersonB: "Q1", Count: 1},
	}
	e := NewEngine(fs, defaultMeta())

	snapshot, err := e.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.CoOccurrenceValues) != 1 {
		t.Fatalf("got %d pairs, want 1", len(snapshot.CoOccurrenceValues))
	}
	if snapshot.CoOccurrenceValues[0] != 3 {
		t.Errorf("canonical pair count = %d, want 3", snapshot.CoOccurrenceValues[0])
	}
}

func TestSnapshot_ComputedOnce(t *testing.T) {
	fs := defaultFake()
	e := NewEngine(fs, defaultMeta())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Snapshot(ctx); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if _, err := e.Snapshot(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fs.calls.Load(); got != 1 {
		t.Errorf("store scanned %d times, want 1", got)
	}
}

func TestSnapshot_FailureNotCached(t *testing.T) {
	fs := defaultFake()
	fs.err = errors.New("endpoint down")
	e := NewEngine(fs, defaultMeta())
	ctx := context.Background()

	if _, err := e.Snapshot(ctx); err == nil {
		t.Fatal("expected error")
	}
	fs.err = nil
	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if snapshot == nil {
		t.Fatal("nil snapshot after recovery")
	}
}
