package importer

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"dancehub/pkg/models"
)

// Source is implemented by each song-database source (local bundle file,
// remote mirror). Each source fetches its own format and maps it into the
// canonical Song model.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Song, error)
}

// Aggregator fetches all sources concurrently and merges them into a single
// canonical song set keyed by map name.
type Aggregator struct {
	Sources []Source
}

func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{Sources: sources}
}

// FetchAndMerge pulls every source and merges the results. One broken source
// does not kill the import; its failure is logged and the rest proceed.
func (a *Aggregator) FetchAndMerge(ctx context.Context) ([]models.Song, error) {
	var (
		mu      sync.Mutex
		fetched = make(map[string][]models.Song, len(a.Sources))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range a.Sources {
		g.Go(func() error {
			log.Printf("[importer] fetching from %s", src.Name())
			songs, err := src.FetchAll(gctx)
			if err != nil {
				log.Printf("[importer] source %s error: %v", src.Name(), err)
				return nil
			}
			mu.Lock()
			fetched[src.Name()] = songs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in declared source order so conflict resolution is deterministic.
	byKey := make(map[string]models.Song)
	for _, src := range a.Sources {
		for _, s := range fetched[src.Name()] {
			key := strings.TrimSpace(s.MapName)
			if key == "" {
				continue
			}
			s.MapName = key
			if existing, ok := byKey[key]; ok {
				byKey[key] = mergeSong(existing, s)
			} else {
				byKey[key] = s
			}
		}
	}

	out := make([]models.Song, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MapName < out[j].MapName })
	return out, nil
}

// mergeSong resolves conflicts between two records for the same map name:
// the first source wins unless its field is empty.
func mergeSong(a, b models.Song) models.Song {
	if a.Title == "" {
		a.Title = b.Title
	}
	if a.Artist == "" {
		a.Artist = b.Artist
	}
	if a.JDVersion == 0 {
		a.JDVersion = b.JDVersion
	}
	a.Tags = unionTags(a.Tags, b.Tags)
	return a
}

func unionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, t := range append(append([]string(nil), a...), b...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
