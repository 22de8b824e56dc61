package carousel

import (
	"math/rand"
	"sort"

	"dancehub/pkg/models"
)

// shuffleIDs returns a uniform random permutation of ids. The source slice is
// never mutated.
func shuffleIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// takeTop is prefix truncation. n <= 0 returns an empty slice.
func takeTop(ids []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// rankByCount orders ids by count descending; ties break on ascending id so
// identical inputs always rank identically.
func rankByCount(counts map[string]int) []string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// sortedKeys returns map keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func itemsFromIDs(ids []string, action string) []models.Item {
	items := make([]models.Item, len(ids))
	for i, id := range ids {
		items[i] = models.Item{MapName: id, Action: action}
	}
	return items
}
