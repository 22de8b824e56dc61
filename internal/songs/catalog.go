package songs

import (
	"sort"
	"strconv"
	"strings"

	"dancehub/pkg/models"
)

// Catalog is the in-memory song table. It is built once at startup and never
// mutated afterwards, so reads need no locking.
type Catalog struct {
	songs map[string]models.Song
	ids   []string // all map names, catalog order (title then id)
}

func NewCatalog(all map[string]models.Song) *Catalog {
	c := &Catalog{
		songs: all,
		ids:   make([]string, 0, len(all)),
	}
	for id := range all {
		c.ids = append(c.ids, id)
	}
	c.sortCatalogOrder(c.ids)
	return c
}

func (c *Catalog) Len() int { return len(c.songs) }

// AllIDs returns every map name in catalog order. The slice is a copy.
func (c *Catalog) AllIDs() []string {
	return append([]string(nil), c.ids...)
}

// All returns the backing map. Callers must treat it as read-only.
func (c *Catalog) All() map[string]models.Song {
	return c.songs
}

// Get looks up one song. Unknown ids simply report not-found.
func (c *Catalog) Get(id string) (models.Song, bool) {
	s, ok := c.songs[id]
	return s, ok
}

// ByTag returns map names carrying the tag, title-then-id order.
func (c *Catalog) ByTag(tag string) []string {
	var out []string
	for _, id := range c.ids {
		if c.songs[id].HasTag(tag) {
			out = append(out, id)
		}
	}
	return out
}

// ByVersion returns map names with the given version tag, title-then-id order.
func (c *Catalog) ByVersion(version int) []string {
	var out []string
	for _, id := range c.ids {
		if c.songs[id].JDVersion == version {
			out = append(out, id)
		}
	}
	return out
}

// ByArtist returns map names whose artist matches exactly, title-then-id order.
func (c *Catalog) ByArtist(artist string) []string {
	var out []string
	for _, id := range c.ids {
		if c.songs[id].Artist == artist {
			out = append(out, id)
		}
	}
	return out
}

// Search matches the query case-insensitively against title, artist and map
// name as a substring, against the version tag as an exact string, and against
// tags by containment. Songs whose title contains the query sort first, by
// match position ascending; everything else follows in catalog order.
func (c *Catalog) Search(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type hit struct {
		id       string
		titleIdx int // -1 when the title does not match
		sortKey  string
	}

	var hits []hit
	for id, s := range c.songs {
		titleIdx := strings.Index(strings.ToLower(s.Title), q)
		matched := titleIdx >= 0 ||
			strings.Contains(strings.ToLower(s.Artist), q) ||
			strings.Contains(strings.ToLower(id), q) ||
			strconv.Itoa(s.JDVersion) == q ||
			tagMatch(s.Tags, q)
		if !matched {
			continue
		}
		hits = append(hits, hit{
			id:       id,
			titleIdx: titleIdx,
			sortKey:  strings.ToLower(s.Title + id),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		switch {
		case a.titleIdx >= 0 && b.titleIdx < 0:
			return true
		case a.titleIdx < 0 && b.titleIdx >= 0:
			return false
		case a.titleIdx >= 0 && b.titleIdx >= 0 && a.titleIdx != b.titleIdx:
			return a.titleIdx < b.titleIdx
		default:
			return a.sortKey < b.sortKey
		}
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

func tagMatch(tags []string, q string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == q {
			return true
		}
	}
	return false
}

// sortCatalogOrder sorts ids by title then map name, case-insensitive.
func (c *Catalog) sortCatalogOrder(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a := strings.ToLower(c.songs[ids[i]].Title)
		b := strings.ToLower(c.songs[ids[j]].Title)
		if a != b {
			return a < b
		}
		return strings.ToLower(ids[i]) < strings.ToLower(ids[j])
	})
}
