// Package dataset loads the offline-generated JSON caches with display
// metadata for every person and party in the knowledge base. The dataset is
// read once at startup and immutable afterwards, so lookups need no locking.
// It also acts as the entity type resolver: an id is a party if the party
// cache knows it, a person if the person cache knows it.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/politiquices/politiquices-api/pkg/relations"
)

const (
	entitiesFile = "all_entities_info.json"
	partiesFile  = "all_parties_info.json"
	personsFile  = "persons.json"
)

const (
	noImage        = "/assets/images/logos/no_picture.jpg"
	personImageDir = "/assets/images/personalities_small"
	partyImageDir  = "/assets/images/parties"
)

// EntityInfo is the cached display metadata of one person.
type EntityInfo struct {
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
	NrArticles int    `json:"nr_articles"`
}

// PartyInfo is one row of the party listing.
type PartyInfo struct {
	WikiID          string `json:"wiki_id"`
	Label           string `json:"party_label"`
	Logo            string `json:"party_logo"`
	Country         string `json:"country"`
	NrPersonalities int    `json:"nr_personalities"`
}

// ListItem is one search-box listing entry.
type ListItem struct {
	WikiID     string `json:"wiki_id"`
	Label      string `json:"label"`
	LocalImage string `json:"local_image"`
	NrArticles int    `json:"nr_articles"`
}

// Dataset holds the loaded caches. Create with Load.
type Dataset struct {
	entities map[string]EntityInfo
	parties  []PartyInfo
	partySet map[string]bool

	persons           []ListItem
	personalities     []ListItem
	personsAndParties []ListItem
}

// Load reads the cache files from dir concurrently and precomputes the
// sorted listings.
func Load(ctx context.Context, dir string) (*Dataset, error) {
	d := &Dataset{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readJSON(filepath.Join(dir, entitiesFile), &d.entities)
	})
	g.Go(func() error {
		return readJSON(filepath.Join(dir, partiesFile), &d.parties)
	})
	g.Go(func() error {
		return readJSON(filepath.Join(dir, personsFile), &d.persons)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading dataset from %s: %w", dir, err)
	}

	d.partySet = make(map[string]bool, len(d.parties))
	for _, p := range d.parties {
		d.partySet[p.WikiID] = true
	}

	d.personalities = make([]ListItem, 0, len(d.entities))
	for id, info := range d.entities {
		d.personalities = append(d.personalities, ListItem{
			WikiID:     id,
			Label:      info.Name,
			LocalImage: LocalPersonImage(id, info.ImageURL),
			NrArticles: info.NrArticles,
		})
	}
	sort.Slice(d.personalities, func(i, j int) bool {
		return d.personalities[i].Label < d.personalities[j].Label
	})

	d.personsAndParties = make([]ListItem, 0, len(d.personalities)+len(d.parties))
	d.personsAndParties = append(d.personsAndParties, d.personalities...)
	for _, p := range d.parties {
		d.personsAndParties = append(d.personsAndParties, ListItem{
			WikiID:     p.WikiID,
			Label:      p.Label,
			LocalImage: LocalPartyLogo(p.WikiID, p.Logo),
		})
	}
	sort.SliceStable(d.personsAndParties, func(i, j int) bool {
		return d.personsAndParties[i].Label < d.personsAndParties[j].Label
	})

	return d, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// IsParty reports whether id names a known party.
func (d *Dataset) IsParty(id string) bool { return d.partySet[id] }

// IsPerson reports whether id names a known person.
func (d *Dataset) IsPerson(id string) bool {
	_, ok := d.entities[id]
	return ok
}

// Info returns the raw cached metadata of a person.
func (d *Dataset) Info(id string) (EntityInfo, bool) {
	info, ok := d.entities[id]
	return info, ok
}

// Lookup resolves a person id to display metadata with the locally cached
// image path. Satisfies relations.Directory.
func (d *Dataset) Lookup(id string) (relations.EntityMeta, bool) {
	info, ok := d.entities[id]
	if !ok {
		return relations.EntityMeta{}, false
	}
	return relations.EntityMeta{
		Name:     info.Name,
		ImageURL: LocalPersonImage(id, info.ImageURL),
	}, true
}

// Parties returns the party listing in cache order.
func (d *Dataset) Parties() []PartyInfo { return d.parties }

// NrParties returns the number of known parties.
func (d *Dataset) NrParties() int { return len(d.parties) }

// Persons returns the plain person search listing.
func (d *Dataset) Persons() []ListItem { return d.persons }

// Personalities returns every known person sorted by name, with local image
// paths and article counts.
func (d *Dataset) Personalities() []ListItem { return d.personalities }

// PersonsAndParties returns the merged search listing sorted by label.
func (d *Dataset) PersonsAndParties() []ListItem { return d.personsAndParties }

// LocalPersonImage maps a person's remote image URL to the locally cached
// thumbnail. Local copies keep the source file's extension. The no-picture
// placeholder passes through unchanged.
func LocalPersonImage(wikiID, remote string) string {
	if strings.HasSuffix(remote, "no_picture.jpg") || remote == "" {
		return noImage
	}
	return fmt.Sprintf("%s/%s.%s", personImageDir, wikiID, imageExt(remote))
}

// LocalPartyLogo maps a party's remote logo URL to the locally cached copy.
func LocalPartyLogo(wikiID, remote string) string {
	if strings.HasSuffix(remote, "no_picture.jpg") || remote == "" {
		return noImage
	}
	return fmt.Sprintf("%s/%s.%s", partyImageDir, wikiID, imageExt(remote))
}

// imageExt extracts the file extension of a remote image URL.
func imageExt(remote string) string {
	i := strings.LastIndexByte(remote, '.')
	if i < 0 || i == len(remote)-1 {
		return "jpg"
	}
	return remote[i+1:]
}
