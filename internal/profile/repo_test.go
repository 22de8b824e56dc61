package profile

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "docs", "schema.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES (?, ?, ?, 'x')
	`, id, "user-"+id, id+"@example.com")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	p, err := repo.GetProfile(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p != nil {
		t.Fatalf("profile = %+v, want nil for unknown user", p)
	}
}

func TestGetProfileEmptyForNewUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewRepo(db)

	p, err := repo.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("profile is nil for existing user")
	}
	if len(p.History) != 0 || len(p.Favorites) != 0 || len(p.Scores) != 0 || len(p.SongsPlayed) != 0 {
		t.Fatalf("new user profile not empty: %+v", p)
	}
}

func TestRecordPlayAccumulates(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewRepo(db)
	ctx := context.Background()

	newBest, err := repo.RecordPlay(ctx, "u1", "boombox", 5000)
	if err != nil {
		t.Fatalf("record play: %v", err)
	}
	if !newBest {
		t.Fatal("first score should be a new best")
	}

	newBest, err = repo.RecordPlay(ctx, "u1", "boombox", 3000)
	if err != nil {
		t.Fatalf("record play: %v", err)
	}
	if newBest {
		t.Fatal("lower score should not be a new best")
	}

	newBest, err = repo.RecordPlay(ctx, "u1", "boombox", 9000)
	if err != nil {
		t.Fatalf("record play: %v", err)
	}
	if !newBest {
		t.Fatal("higher score should be a new best")
	}

	p, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got := p.History["boombox"]; got != 3 {
		t.Fatalf("history count = %d, want 3", got)
	}
	rec := p.Scores["boombox"]
	if rec.HighScore != 9000 {
		t.Fatalf("high score = %d, want 9000", rec.HighScore)
	}
	if rec.TimesPlayed != 3 {
		t.Fatalf("times played = %d, want 3", rec.TimesPlayed)
	}
	if want := []string{"boombox", "boombox", "boombox"}; !reflect.DeepEqual(p.SongsPlayed, want) {
		t.Fatalf("songs played = %v, want %v", p.SongsPlayed, want)
	}
}

func TestRecordPlayKeepsTimestampUnlessScoreImproves(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewRepo(db)
	ctx := context.Background()

	if _, err := repo.RecordPlay(ctx, "u1", "boombox", 10000); err != nil {
		t.Fatalf("record play: %v", err)
	}
	// Pin the achievement time so a bump is observable within one test run.
	if _, err := db.Exec(`
		UPDATE user_scores SET updated_at = '2020-01-01 00:00:00'
		WHERE user_id = 'u1' AND map_name = 'boombox'
	`); err != nil {
		t.Fatalf("pin updated_at: %v", err)
	}

	updatedAt := func() string {
		t.Helper()
		var ts string
		err := db.QueryRow(`
			SELECT updated_at FROM user_scores
			WHERE user_id = 'u1' AND map_name = 'boombox'
		`).Scan(&ts)
		if err != nil {
			t.Fatalf("read updated_at: %v", err)
		}
		return ts
	}

	// Replays that don't beat the high score keep the original timestamp,
	// so leaderboard ties stay with whoever got there first.
	for _, score := range []int{5000, 10000} {
		if _, err := repo.RecordPlay(ctx, "u1", "boombox", score); err != nil {
			t.Fatalf("record play %d: %v", score, err)
		}
		if got := updatedAt(); got != "2020-01-01 00:00:00" {
			t.Fatalf("updated_at after replaying %d = %q, want unchanged", score, got)
		}
	}

	if _, err := repo.RecordPlay(ctx, "u1", "boombox", 12000); err != nil {
		t.Fatalf("record play: %v", err)
	}
	if got := updatedAt(); got == "2020-01-01 00:00:00" {
		t.Fatal("updated_at did not move for an improved score")
	}
}

func TestSongsPlayedKeepsInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewRepo(db)
	ctx := context.Background()

	for _, id := range []string{"zulu", "alpha", "mike"} {
		if _, err := repo.RecordPlay(ctx, "u1", id, 100); err != nil {
			t.Fatalf("record play %s: %v", id, err)
		}
	}

	p, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	// Chronological, not alphabetical.
	want := []string{"zulu", "alpha", "mike"}
	if !reflect.DeepEqual(p.SongsPlayed, want) {
		t.Fatalf("songs played = %v, want %v", p.SongsPlayed, want)
	}
}

func TestFavoritesAddRemove(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	repo := NewRepo(db)
	ctx := context.Background()

	if err := repo.AddFavorite(ctx, "u1", "boombox"); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	// Adding twice is a no-op, not an error.
	if err := repo.AddFavorite(ctx, "u1", "boombox"); err != nil {
		t.Fatalf("re-add favorite: %v", err)
	}

	p, err := repo.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !p.Favorites["boombox"] || len(p.Favorites) != 1 {
		t.Fatalf("favorites = %v", p.Favorites)
	}

	removed, err := repo.RemoveFavorite(ctx, "u1", "boombox")
	if err != nil {
		t.Fatalf("remove favorite: %v", err)
	}
	if !removed {
		t.Fatal("remove reported nothing deleted")
	}

	removed, err = repo.RemoveFavorite(ctx, "u1", "boombox")
	if err != nil {
		t.Fatalf("remove favorite again: %v", err)
	}
	if removed {
		t.Fatal("second remove should report nothing deleted")
	}
}
