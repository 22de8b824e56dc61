package carousel

import (
	"context"
	"log"
	"strconv"

	"dancehub/internal/playcount"
	"dancehub/internal/playlists"
	"dancehub/internal/songs"
	"dancehub/pkg/models"
)

// Category item caps. These are hard bounds on payload size, not preferences.
const (
	headerCap      = 24
	recommendedCap = 24
	recentCap      = 24
	artistCap      = 12
	seedCap        = 10
	maxSeeds       = 2
	topArtists     = 3
)

const (
	actShelf        = "ui_songs"
	actSearchMarker = "ui_search"

	tagNew = "NEW"

	titleRecommended = "Recommended For You"
	titleFavorites   = "Your Favorites"
)

// versionBuckets is the fixed emission order for the by-version block:
// three special buckets, year buckets descending, edition buckets descending,
// then the unplayable sentinel.
var versionBuckets = buildVersionBuckets()

type versionBucket struct {
	Title   string
	Version int
}

func buildVersionBuckets() []versionBucket {
	out := []versionBucket{
		{Title: "Unlimited", Version: 4884},
		{Title: "Extras", Version: 4514},
		{Title: "Classics", Version: 123},
	}
	for year := 2069; year >= 2014; year-- {
		out = append(out, versionBucket{Title: "Season " + strconv.Itoa(year), Version: year})
	}
	for edition := 4; edition >= 1; edition-- {
		out = append(out, versionBucket{Title: "Edition " + strconv.Itoa(edition), Version: edition})
	}
	out = append(out, versionBucket{Title: "Unplayable", Version: 404})
	return out
}

// ProfileProvider is the read contract against the account subsystem.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// PlayCountStore is the read contract against the weekly play aggregate.
type PlayCountStore interface {
	CurrentWeek() int
	TopSongsForWeek(ctx context.Context, week int) ([]playcount.Entry, error)
}

// Composer builds the personalized carousel. Constructed once at startup with
// its collaborators injected; safe for concurrent requests because it holds
// no per-request state.
type Composer struct {
	Catalog     *songs.Catalog
	Profiles    ProfileProvider
	Counts      PlayCountStore
	Playlists   *playlists.Config
	DisplayName string
}

func NewComposer(catalog *songs.Catalog, profiles ProfileProvider, counts PlayCountStore, cfg *playlists.Config, displayName string) *Composer {
	return &Composer{
		Catalog:     catalog,
		Profiles:    profiles,
		Counts:      counts,
		Playlists:   cfg,
		DisplayName: displayName,
	}
}

// Generate composes the full carousel for one request. Category order is a
// contract: clients index into it. A failing profile or play-count lookup
// degrades its own categories; the payload itself always comes back.
func (cp *Composer) Generate(ctx context.Context, searchQuery string, variant Variant, userID string) *models.CarouselPayload {
	action := variant.ItemAction()
	week := cp.Counts.CurrentWeek()

	var cats []models.Category

	// 1. Header: the whole catalog, reshuffled on every call.
	cats = append(cats, songCategory(cp.DisplayName, takeTop(shuffleIDs(cp.Catalog.AllIDs()), headerCap), action))

	// 2. Personalization block (anonymous fallback inside).
	cats = append(cats, cp.personalized(ctx, userID, action)...)

	// 3. Recently added.
	cats = append(cats, songCategory("Recently Added", cp.Catalog.ByTag(tagNew), action))

	// 4. This week's rotating playlist, when the config defines one.
	if def, ok := cp.Playlists.WeeklyFor(week); ok {
		cats = append(cats, songCategory(def.DisplayName, def.Songs, action))
	}

	// 5. Permanent playlists, verbatim.
	for _, def := range cp.Playlists.NonWeekly() {
		cats = append(cats, songCategory(def.DisplayName, def.Songs, action))
	}

	// 6. By-version buckets in fixed order, empty ones included.
	for _, b := range versionBuckets {
		cats = append(cats, songCategory(b.Title, cp.Catalog.ByVersion(b.Version), action))
	}

	// 7. Most played this week, globally.
	cats = append(cats, songCategory("Most Played This Week", cp.weeklyTop(ctx, week), action))

	// 8. Structural marker telling the client search is available.
	cats = append(cats, models.Category{Title: "Search", Act: actSearchMarker, Items: []models.Item{}})

	// 9. Search results, only for a non-empty query.
	if searchQuery != "" {
		cats = append(cats, songCategory(searchQuery, cp.Catalog.Search(searchQuery), action))
	}

	return &models.CarouselPayload{
		ActionLists: string(variant),
		Categories:  cats,
	}
}

// GenerateParty is the default entry point.
func (cp *Composer) GenerateParty(ctx context.Context, searchQuery, userID string) *models.CarouselPayload {
	return cp.Generate(ctx, searchQuery, VariantParty, userID)
}

// GenerateCoop, GenerateSweat and GenerateChallenge return deep copies;
// callers own the payload outright.
func (cp *Composer) GenerateCoop(ctx context.Context, searchQuery, userID string) *models.CarouselPayload {
	return cp.Generate(ctx, searchQuery, VariantCoop, userID).Clone()
}

func (cp *Composer) GenerateSweat(ctx context.Context, searchQuery, userID string) *models.CarouselPayload {
	return cp.Generate(ctx, searchQuery, VariantSweat, userID).Clone()
}

func (cp *Composer) GenerateChallenge(ctx context.Context, searchQuery, userID string) *models.CarouselPayload {
	return cp.Generate(ctx, searchQuery, VariantChallenge, userID).Clone()
}

// personalized builds the per-user block, or the single anonymous fallback
// shelf when no profile resolves.
func (cp *Composer) personalized(ctx context.Context, userID, action string) []models.Category {
	var profile *models.Profile
	if userID != "" {
		p, err := cp.Profiles.GetProfile(ctx, userID)
		if err != nil {
			log.Printf("[carousel] profile lookup %s failed, serving anonymous shelves: %v", userID, err)
		} else {
			profile = p
		}
	}

	if profile == nil {
		return []models.Category{
			songCategory(titleRecommended, takeTop(shuffleIDs(cp.Catalog.AllIDs()), recommendedCap), action),
		}
	}

	cats := []models.Category{cp.recommendedFor(profile, action)}
	cats = append(cats, cp.artistShelves(profile, action)...)
	cats = append(cats, cp.favoriteShelves(profile, action)...)
	if recent, ok := cp.recentlyPlayed(profile, action); ok {
		cats = append(cats, recent)
	}
	return cats
}

// recommendedFor ranks by history play counts, then score timesPlayed, then
// falls back to a random catalog sample.
func (cp *Composer) recommendedFor(p *models.Profile, action string) models.Category {
	switch {
	case len(p.History) > 0:
		return songCategory(titleRecommended, takeTop(rankByCount(p.History), recommendedCap), action)
	case len(p.Scores) > 0:
		counts := make(map[string]int, len(p.Scores))
		for id, rec := range p.Scores {
			counts[id] = rec.TimesPlayed
		}
		return songCategory(titleRecommended, takeTop(rankByCount(counts), recommendedCap), action)
	default:
		return songCategory(titleRecommended, takeTop(shuffleIDs(cp.Catalog.AllIDs()), recommendedCap), action)
	}
}

// artistShelves emits up to three "More From <artist>" shelves for the
// artists the user engages with most, excluding songs they already know.
func (cp *Composer) artistShelves(p *models.Profile, action string) []models.Category {
	known := make(map[string]bool, len(p.History)+len(p.Favorites))
	for id := range p.History {
		known[id] = true
	}
	for id := range p.Favorites {
		known[id] = true
	}

	weights := make(map[string]int)
	for id := range known {
		song, ok := cp.Catalog.Get(id)
		if !ok || song.Artist == "" {
			continue
		}
		weight := p.History[id]
		if weight == 0 {
			weight = 1
		}
		weights[song.Artist] += weight
	}

	top := takeTop(rankByCount(weights), topArtists)

	var cats []models.Category
	for _, artist := range top {
		var pool []string
		for _, id := range cp.Catalog.ByArtist(artist) {
			if known[id] {
				continue
			}
			pool = append(pool, id)
		}
		picks := takeTop(shuffleIDs(pool), artistCap)
		if len(picks) == 0 {
			continue
		}
		cats = append(cats, songCategory("More From "+artist, picks, action))
	}
	return cats
}

// favoriteShelves picks up to two favorite songs as seeds and builds a
// similarity shelf per seed (same artist, then same version, seed and other
// favorites excluded), followed by the full favorites list verbatim.
func (cp *Composer) favoriteShelves(p *models.Profile, action string) []models.Category {
	var cats []models.Category

	seeds := takeTop(shuffleIDs(sortedKeys(p.Favorites)), maxSeeds)
	for _, seedID := range seeds {
		seed, ok := cp.Catalog.Get(seedID)
		if !ok {
			continue
		}

		collected := make(map[string]bool)
		var related []string
		for _, id := range cp.Catalog.ByArtist(seed.Artist) {
			if id == seedID || p.Favorites[id] {
				continue
			}
			related = append(related, id)
			collected[id] = true
		}
		for _, id := range cp.Catalog.ByVersion(seed.JDVersion) {
			if id == seedID || p.Favorites[id] || collected[id] {
				continue
			}
			related = append(related, id)
		}

		picks := takeTop(shuffleIDs(related), seedCap)
		if len(picks) == 0 {
			continue
		}
		cats = append(cats, songCategory("Because You Liked "+seed.Title, picks, action))
	}

	cats = append(cats, songCategory(titleFavorites, sortedKeys(p.Favorites), action))
	return cats
}

// recentlyPlayed is the last 24 plays, most recent first.
func (cp *Composer) recentlyPlayed(p *models.Profile, action string) (models.Category, bool) {
	played := p.SongsPlayed
	if len(played) == 0 {
		return models.Category{}, false
	}
	if len(played) > recentCap {
		played = played[len(played)-recentCap:]
	}
	reversed := make([]string, len(played))
	for i, id := range played {
		reversed[len(played)-1-i] = id
	}
	return songCategory("Your Recently Played", reversed, action), true
}

func (cp *Composer) weeklyTop(ctx context.Context, week int) []string {
	entries, err := cp.Counts.TopSongsForWeek(ctx, week)
	if err != nil {
		log.Printf("[carousel] weekly top unavailable, serving empty shelf: %v", err)
		return nil
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.MapName
	}
	return ids
}

func songCategory(title string, ids []string, action string) models.Category {
	return models.Category{
		Title: title,
		Act:   actShelf,
		Items: itemsFromIDs(ids, action),
	}
}
