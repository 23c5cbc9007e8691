// Package query composes pairwise relationship lookups across entity types.
// A request names two wiki ids that may each be a person or a party; the
// service resolves the types, picks the matching store operation (expanding
// party ids into member sets where needed) and memoizes results in a small
// LRU keyed by the exact request parameters.
package query

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/politiquices/politiquices-api/pkg/cache"
	"github.com/politiquices/politiquices-api/pkg/relations"
	"github.com/politiquices/politiquices-api/pkg/store"
)

var (
	ErrInvalidID       = errors.New("invalid wiki id")
	ErrInvalidRelation = errors.New("invalid relationship type")
	ErrUnknownEntity   = errors.New("entity is neither a known person nor a known party")
)

var wikiIDRe = regexp.MustCompile(`^Q\d+$`)

// relationshipCacheSize bounds the per-process result cache. The hot set of
// repeated queries is small; anything beyond this is cheap to recompute.
const relationshipCacheSize = 50

// Directory resolves entity types and display metadata, backed by the
// startup dataset.
type Directory interface {
	IsParty(id string) bool
	IsPerson(id string) bool
	Lookup(id string) (relations.EntityMeta, bool)
}

// Service dispatches cross-entity relationship queries.
//
// A Service should be created using NewService.
type Service struct {
	dir   Directory
	store store.Store

	relCache    *cache.LRU[[]store.Relationship]
	memberCache *cache.LRU[[]string]

	startYear int
	endYear   int

	// Optional cache instrumentation hooks.
	OnCacheHit  func()
	OnCacheMiss func()
}

// NewServiceParams defines the configuration for creating a new Service.
type NewServiceParams struct {
	Directory Directory
	Store     store.Store
	// StartYear and EndYear bound queries that omit a year range.
	StartYear int
	EndYear   int
}

// NewService creates a relationship query service.
func NewService(params NewServiceParams) *Service {
	return &Service{
		dir:         params.Directory,
		store:       params.Store,
		relCache:    cache.NewLRU[[]store.Relationship](relationshipCacheSize),
		memberCache: cache.NewLRU[[]string](relationshipCacheSize),
		startYear:   params.StartYear,
		endYear:     params.EndYear,
	}
}

// Between returns every relationship matching the request, dispatching on
// the entity types of ent1 and ent2. Zero years fall back to the configured
// defaults. Results carry display images where the directory knows the
// participant; unknown participants keep an empty image, never fail the
// request.
func (s *Service) Between(ctx context.Context, ent1, ent2, relType string, startYear, endYear int) ([]store.Relationship, error) {
	if !wikiIDRe.MatchString(ent1) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, ent1)
	}
	if !wikiIDRe.MatchString(ent2) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, ent2)
	}
	if !relations.IsRequestToken(relType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRelation, relType)
	}
	if startYear == 0 {
		startYear = s.startYear
	}
	if endYear == 0 {
		endYear = s.endYear
	}

	ent1Party, ent1Person := s.resolve(ent1)
	if !ent1Party && !ent1Person {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, ent1)
	}
	ent2Party, ent2Person := s.resolve(ent2)
	if !ent2Party && !ent2Person {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, ent2)
	}

	// The key is the exact parameter tuple. (A,B) and (B,A) are distinct
	// queries with distinct orientations and are cached separately.
	key := fmt.Sprintf("%s|%s|%s|%d|%d", ent1, ent2, relType, startYear, endYear)
	rels, hit, err := s.relCache.Do(key, func() ([]store.Relationship, error) {
		q := store.RelationshipQuery{
			Ent1: ent1, Ent2: ent2, RelType: relType,
			StartYear: startYear, EndYear: endYear,
		}
		switch {
		case ent1Person && ent2Person:
			return s.store.RelationshipsBetweenPersons(ctx, q)
		case ent1Party && ent2Person:
			return s.store.RelationshipsBetweenPartyAndPerson(ctx, q)
		case ent1Person && ent2Party:
			return s.store.RelationshipsBetweenPersonAndParty(ctx, q)
		default:
			return s.betweenParties(ctx, q)
		}
	})
	if err != nil {
		return nil, err
	}
	s.countCache(hit)

	return s.withImages(rels), nil
}

// resolve classifies an id, party first: a few ids exist in both caches and
// the party reading wins.
func (s *Service) resolve(id string) (isParty, isPerson bool) {
	if s.dir.IsParty(id) {
		return true, false
	}
	return false, s.dir.IsPerson(id)
}

func (s *Service) betweenParties(ctx context.Context, q store.RelationshipQuery) ([]store.Relationship, error) {
	var membersA, membersB []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		membersA, err = s.members(gctx, q.Ent1)
		return err
	})
	g.Go(func() error {
		var err error
		membersB, err = s.members(gctx, q.Ent2)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.store.RelationshipsBetweenParties(ctx, membersA, membersB, q.RelType, q.StartYear, q.EndYear)
}

// members expands a party into its member ids, memoized.
func (s *Service) members(ctx context.Context, partyID string) ([]string, error) {
	members, _, err := s.memberCache.Do(partyID, func() ([]string, error) {
		return s.store.PartyMembers(ctx, partyID)
	})
	return members, err
}

// withImages attaches display images from the directory. Rows whose
// participants are unknown keep empty images.
func (s *Service) withImages(rels []store.Relationship) []store.Relationship {
	out := make([]store.Relationship, len(rels))
	for i, rel := range rels {
		if meta, ok := s.dir.Lookup(rel.Ent1ID); ok {
			rel.Ent1Image = meta.ImageURL
			if rel.Ent1Name == "" {
				rel.Ent1Name = meta.Name
			}
		}
		if meta, ok := s.dir.Lookup(rel.Ent2ID); ok {
			rel.Ent2Image = meta.ImageURL
			if rel.Ent2Name == "" {
				rel.Ent2Name = meta.Name
			}
		}
		out[i] = rel
	}
	return out
}

func (s *Service) countCache(hit bool) {
	if hit {
		if s.OnCacheHit != nil {
			s.OnCacheHit()
		}
	} else if s.OnCacheMiss != nil {
		s.OnCacheMiss()
	}
}
