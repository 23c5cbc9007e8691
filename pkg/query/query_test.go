package query

import (
	"context"
	"errors"
	"testing"

	"github.com/politiquices/politiquices-api/pkg/relations"
	"github.com/politiquices/politiquices-api/pkg/store"
)

// fakeDirectory classifies ids from fixed sets.
type fakeDirectory struct {
	parties map[string]bool
	persons map[string]relations.EntityMeta
}

func (d *fakeDirectory) IsParty(id string) bool { return d.parties[id] }
func (d *fakeDirectory) IsPerson(id string) bool {
	_, ok := d.persons[id]
	return ok
}
func (d *fakeDirectory) Lookup(id string) (relations.EntityMeta, bool) {
	meta, ok := d.persons[id]
	return meta, ok
}

// fakeStore counts calls per operation and plays back canned rows.
type fakeStore struct {
	store.Store

	personCalls     int
	partyPersonCall int
	personPartyCall int
	partiesCalls    int
	memberCalls     int

	rels    []store.Relationship
	members map[string][]string
	err     error

	lastQuery    store.RelationshipQuery
	lastMembersA []string
	lastMembersB []string
}

func (f *fakeStore) RelationshipsBetweenPersons(_ context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	f.personCalls++
	f.lastQuery = q
	return f.rels, f.err
}

func (f *fakeStore) RelationshipsBetweenPartyAndPerson(_ context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	f.partyPersonCall++
	f.lastQuery = q
	return f.rels, f.err
}

func (f *fakeStore) RelationshipsBetweenPersonAndParty(_ context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	f.personPartyCall++
	f.lastQuery = q
	return f.rels, f.err
}

func (f *fakeStore) RelationshipsBetweenParties(_ context.Context, membersA, membersB []string, relType string, startYear, endYear int) ([]store.Relationship, error) {
	f.partiesCalls++
	f.lastMembersA = membersA
	f.lastMembersB = membersB
	return f.rels, f.err
}

func (f *fakeStore) PartyMembers(_ context.Context, partyID string) ([]string, error) {
	f.memberCalls++
	return f.members[partyID], nil
}

func newTestService(fs *fakeStore, dir *fakeDirectory) *Service {
	return NewService(NewServiceParams{
		Directory: dir,
		Store:     fs,
		StartYear: 1994,
		EndYear:   2022,
	})
}

func defaultDirectory() *fakeDirectory {
	return &fakeDirectory{
		parties: map[string]bool{"Q100": true, "Q200": true},
		persons: map[string]relations.EntityMeta{
			"Q1": {Name: "Pessoa Um", ImageURL: "/assets/images/personalities_small/Q1.jpg"},
			"Q2": {Name: "Pessoa Dois", ImageURL: "/assets/images/personalities_small/Q2.jpg"},
		},
	}
}

func TestBetween_InvalidInputRejectedBeforeStore(t *testing.T) {
	fs := &fakeStore{}
	s := newTestService(fs, defaultDirectory())
	ctx := context.Background()

	tests := []struct {
		name    string
		ent1    string
		ent2    string
		relType string
		wantErr error
	}{
		{"malformed ent1", "nope", "Q2", "ent1_opposes_ent2", ErrInvalidID},
		{"malformed ent2", "Q1", "", "ent1_opposes_ent2", ErrInvalidID},
		{"bad relation", "Q1", "Q2", "likes", ErrInvalidRelation},
		{"unknown entity", "Q1", "Q999", "ent1_opposes_ent2", ErrUnknownEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Between(ctx, tt.ent1, tt.ent2, tt.relType, 0, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if fs.personCalls+fs.partyPersonCall+fs.personPartyCall+fs.partiesCalls+fs.memberCalls != 0 {
		t.Fatal("store reached despite invalid input")
	}
}

func TestBetween_DispatchByEntityType(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		ent1  string
		ent2  string
		check func(t *testing.T, fs *fakeStore)
	}{
		{"person/person", "Q1", "Q2", func(t *testing.T, fs *fakeStore) {
			if fs.personCalls != 1 {
				t.Errorf("personCalls = %d", fs.personCalls)
			}
		}},
		{"party/person", "Q100", "Q1", func(t *testing.T, fs *fakeStore) {
			if fs.partyPersonCall != 1 {
				t.Errorf("partyPersonCall = %d", fs.partyPersonCall)
			}
		}},
		{"person/party", "Q1", "Q100", func(t *testing.T, fs *fakeStore) {
			if fs.personPartyCall != 1 {
				t.Errorf("personPartyCall = %d", fs.personPartyCall)
			}
		}},
		{"party/party", "Q100", "Q200", func(t *testing.T, fs *fakeStore) {
			if fs.partiesCalls != 1 {
				t.Errorf("partiesCalls = %d", fs.partiesCalls)
			}
			if fs.memberCalls != 2 {
				t.Errorf("memberCalls = %d, want 2", fs.memberCalls)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeStore{members: map[string][]string{
				"Q100": {"Q1"},
				"Q200": {"Q2"},
			}}
			s := newTestService(fs, defaultDirectory())
			if _, err := s.Between(ctx, tt.ent1, tt.ent2, "ent1_opposes_ent2", 0, 0); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, fs)
		})
	}
}

func TestBetween_DefaultYearWindow(t *testing.T) {
	fs := &fakeStore{}
	s := newTestService(fs, defaultDirectory())

	if _, err := s.Between(context.Background(), "Q1", "Q2", "all_sentiment", 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.lastQuery.StartYear != 1994 || fs.lastQuery.EndYear != 2022 {
		t.Errorf("year window = %d..%d, want 1994..2022", fs.lastQuery.StartYear, fs.lastQuery.EndYear)
	}

	if _, err := s.Between(context.Background(), "Q1", "Q2", "all_sentiment", 2001, 2003); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.lastQuery.StartYear != 2001 || fs.lastQuery.EndYear != 2003 {
		t.Errorf("explicit years not honored: %d..%d", fs.lastQuery.StartYear, fs.lastQuery.EndYear)
	}
}

func TestBetween_CachesByExactKey(t *testing.T) {
	fs := &fakeStore{}
	s := newTestService(fs, defaultDirectory())
	ctx := context.Background()

	var hits, misses int
	s.OnCacheHit = func() { hits++ }
	s.OnCacheMiss = func() { misses++ }

	for i := 0; i < 3; i++ {
		if _, err := s.Between(ctx, "Q1", "Q2", "ent1_opposes_ent2", 0, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if fs.personCalls != 1 {
		t.Errorf("store called %d times, want 1", fs.personCalls)
	}
	if hits != 2 || misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", hits, misses)
	}

	// Swapped ids and changed year windows are distinct keys.
	if _, err := s.Between(ctx, "Q2", "Q1", "ent1_opposes_ent2", 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Between(ctx, "Q1", "Q2", "ent1_opposes_ent2", 2000, 2005); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.personCalls != 3 {
		t.Errorf("store called %d times, want 3", fs.personCalls)
	}
}

func TestBetween_StoreErrorNotCached(t *testing.T) {
	fs := &fakeStore{err: errors.New("endpoint down")}
	s := newTestService(fs, defaultDirectory())
	ctx := context.Background()

	if _, err := s.Between(ctx, "Q1", "Q2", "other", 0, 0); err == nil {
		t.Fatal("expected store error")
	}
	fs.err = nil
	if _, err := s.Between(ctx, "Q1", "Q2", "other", 0, 0); err != nil {
		t.Fatalf("recovered call failed: %v", err)
	}
	if fs.personCalls != 2 {
		t.Errorf("store called %d times, want 2 (failure must not be cached)", fs.personCalls)
	}
}

func TestBetween_ImageEnrichmentTolerant(t *testing.T) {
	fs := &fakeStore{rels: []store.Relationship{
		{Ent1ID: "Q1", Ent2ID: "Q2", RelType: "ent1_opposes_ent2"},
		{Ent1ID: "Q1", Ent2ID: "Q777", RelType: "ent1_opposes_ent2"},
	}}
	s := newTestService(fs, defaultDirectory())

	rels, err := s.Between(context.Background(), "Q1", "Q2", "ent1_opposes_ent2", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rels[0].Ent1Image == "" || rels[0].Ent2Image == "" {
		t.Error("known participants should carry images")
	}
	// Q777 is not in the directory: the row survives without an image.
	if rels[1].Ent2Image != "" {
		t.Errorf("unknown participant image = %q, want empty", rels[1].Ent2Image)
	}
	if len(rels) != 2 {
		t.Errorf("got %d rows, want 2", len(rels))
	}
}

func TestBetween_PartyMembersMemoized(t *testing.T) {
	fs := &fakeStore{members: map[string][]string{
		"Q100": {"Q1"},
		"Q200": {"Q2"},
	}}
	s := newTestService(fs, defaultDirectory())
	ctx := context.Background()

	if _, err := s.Between(ctx, "Q100", "Q200", "all_sentiment", 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Different year window forces a fresh relationship query, but member
	// sets come from the memo.
	if _, err := s.Between(ctx, "Q100", "Q200", "all_sentiment", 2000, 2010); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.memberCalls != 2 {
		t.Errorf("memberCalls = %d, want 2", fs.memberCalls)
	}
	if fs.partiesCalls != 2 {
		t.Errorf("partiesCalls = %d, want 2", fs.partiesCalls)
	}
	if len(fs.lastMembersA) != 1 || fs.lastMembersA[0] != "Q1" {
		t.Errorf("membersA = %v", fs.lastMembersA)
	}
}
