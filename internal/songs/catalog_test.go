package songs

import (
	"reflect"
	"testing"

	"dancehub/pkg/models"
)

func sampleCatalog() *Catalog {
	return NewCatalog(map[string]models.Song{
		"boombox":  {MapName: "boombox", Title: "Boombox Anthem", Artist: "Aya", JDVersion: 2024, Tags: []string{"NEW"}},
		"neon":     {MapName: "neon", Title: "Neon Nights", Artist: "Bruno", JDVersion: 2024},
		"aurora":   {MapName: "aurora", Title: "Aurora", Artist: "Aya", JDVersion: 2023, Tags: []string{"NEW", "Chill"}},
		"stomp":    {MapName: "stomp", Title: "Stomp It", Artist: "Carmen", JDVersion: 4884},
		"stompalt": {MapName: "stompalt", Title: "Stomp It", Artist: "Carmen", JDVersion: 2023},
	})
}

func TestAllIDsCatalogOrder(t *testing.T) {
	c := sampleCatalog()

	// Title ascending, map name breaking the Stomp It tie.
	want := []string{"aurora", "boombox", "neon", "stomp", "stompalt"}
	if got := c.AllIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("AllIDs() = %v, want %v", got, want)
	}
}

func TestAllIDsReturnsCopy(t *testing.T) {
	c := sampleCatalog()
	ids := c.AllIDs()
	ids[0] = "mutated"
	if c.AllIDs()[0] == "mutated" {
		t.Fatal("AllIDs exposes internal state")
	}
}

func TestByTag(t *testing.T) {
	c := sampleCatalog()
	want := []string{"aurora", "boombox"}
	if got := c.ByTag("NEW"); !reflect.DeepEqual(got, want) {
		t.Fatalf("ByTag(NEW) = %v, want %v", got, want)
	}
	if got := c.ByTag("nope"); len(got) != 0 {
		t.Fatalf("ByTag(nope) = %v, want empty", got)
	}
}

func TestByVersion(t *testing.T) {
	c := sampleCatalog()
	want := []string{"boombox", "neon"}
	if got := c.ByVersion(2024); !reflect.DeepEqual(got, want) {
		t.Fatalf("ByVersion(2024) = %v, want %v", got, want)
	}
	if got := c.ByVersion(1999); len(got) != 0 {
		t.Fatalf("ByVersion(1999) = %v, want empty", got)
	}
}

func TestByArtist(t *testing.T) {
	c := sampleCatalog()
	want := []string{"aurora", "boombox"}
	if got := c.ByArtist("Aya"); !reflect.DeepEqual(got, want) {
		t.Fatalf("ByArtist(Aya) = %v, want %v", got, want)
	}
}

func TestSearch(t *testing.T) {
	c := sampleCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title substring", "neon", []string{"neon"}},
		{"case insensitive", "AURORA", []string{"aurora"}},
		{"artist match", "carmen", []string{"stomp", "stompalt"}},
		{"version exact", "4884", []string{"stomp"}},
		{"tag exact", "chill", []string{"aurora"}},
		{"no match", "zzz", nil},
		{"blank", "   ", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Search(tc.query); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Search(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestSearchTitleMatchesFirst(t *testing.T) {
	c := NewCatalog(map[string]models.Song{
		"late":   {MapName: "late", Title: "Zebra Dance", Artist: "Funkmaster"},
		"first":  {MapName: "first", Title: "Funk It Up", Artist: "Aya"},
		"midway": {MapName: "midway", Title: "Get Funky", Artist: "Bruno"},
	})

	// Earlier title match positions win; artist-only matches trail.
	want := []string{"first", "midway", "late"}
	if got := c.Search("funk"); !reflect.DeepEqual(got, want) {
		t.Fatalf("Search(funk) = %v, want %v", got, want)
	}
}
