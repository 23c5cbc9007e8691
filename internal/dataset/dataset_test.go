package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		entitiesFile: `{
			"Q1": {"name": "Zulmira Costa", "image_url": "http://img/q1.jpg", "nr_articles": 12},
			"Q2": {"name": "Antonio Sousa", "image_url": "", "nr_articles": 3}
		}`,
		partiesFile: `[
			{"wiki_id": "Q100", "party_label": "Partido A", "party_logo": "http://img/a.svg", "country": "Portugal", "nr_personalities": 40},
			{"wiki_id": "Q200", "party_label": "Partido B", "party_logo": "http://static/no_picture.jpg", "country": "Portugal", "nr_personalities": 7}
		]`,
		personsFile: `[
			{"wiki_id": "Q1", "label": "Zulmira Costa"},
			{"wiki_id": "Q2", "label": "Antonio Sousa"}
		]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	d, err := Load(context.Background(), writeFixtures(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !d.IsPerson("Q1") || d.IsPerson("Q100") {
		t.Error("person resolution wrong")
	}
	if !d.IsParty("Q100") || d.IsParty("Q1") {
		t.Error("party resolution wrong")
	}
	if d.NrParties() != 2 {
		t.Errorf("NrParties = %d, want 2", d.NrParties())
	}

	meta, ok := d.Lookup("Q1")
	if !ok {
		t.Fatal("Lookup(Q1) missed")
	}
	if meta.Name != "Zulmira Costa" {
		t.Errorf("name = %q", meta.Name)
	}
	if meta.ImageURL != "/assets/images/personalities_small/Q1.jpg" {
		t.Errorf("image = %q, want local path", meta.ImageURL)
	}
	if _, ok := d.Lookup("Q999"); ok {
		t.Error("Lookup(Q999) should miss")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for missing cache files")
	}
}

func TestListingsSorted(t *testing.T) {
	d, err := Load(context.Background(), writeFixtures(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	personalities := d.Personalities()
	if len(personalities) != 2 {
		t.Fatalf("got %d personalities, want 2", len(personalities))
	}
	if personalities[0].Label != "Antonio Sousa" {
		t.Errorf("listing not sorted: first = %q", personalities[0].Label)
	}
	if personalities[0].NrArticles != 3 {
		t.Errorf("article count not carried: %d", personalities[0].NrArticles)
	}
	// Q2 has no remote image, so the placeholder stays.
	if personalities[0].LocalImage != noImage {
		t.Errorf("missing image should fall back, got %q", personalities[0].LocalImage)
	}

	merged := d.PersonsAndParties()
	if len(merged) != 4 {
		t.Fatalf("got %d merged entries, want 4", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i-1].Label > merged[i].Label {
			t.Fatalf("merged listing not sorted at %d: %q > %q", i, merged[i-1].Label, merged[i].Label)
		}
	}
}

func TestLocalImages(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"person with image", LocalPersonImage("Q5", "http://img/x.jpg"), "/assets/images/personalities_small/Q5.jpg"},
		{"person png image", LocalPersonImage("Q5", "http://img/x.png"), "/assets/images/personalities_small/Q5.png"},
		{"person placeholder", LocalPersonImage("Q5", "http://x/no_picture.jpg"), noImage},
		{"party svg logo", LocalPartyLogo("Q100", "http://img/l.svg"), "/assets/images/parties/Q100.svg"},
		{"party png logo", LocalPartyLogo("Q100", "http://img/l.png"), "/assets/images/parties/Q100.png"},
		{"party without logo", LocalPartyLogo("Q100", ""), noImage},
		{"extensionless source", LocalPartyLogo("Q100", "http://img/logo"), "/assets/images/parties/Q100.jpg"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
