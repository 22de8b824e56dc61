package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dancehub/pkg/database"
)

func main() {
	var (
		songsOut  = flag.String("songs", "data/songs.csv", "output CSV path for songs")
		countsOut = flag.String("counts", "data/play_counts.csv", "output CSV path for weekly play counts")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportSongs(ctx, db, *songsOut); err != nil {
		log.Fatalf("export songs failed: %v", err)
	}
	if err := exportPlayCounts(ctx, db, *countsOut); err != nil {
		log.Fatalf("export play counts failed: %v", err)
	}

	log.Printf("exported songs to %s and play counts to %s", *songsOut, *countsOut)
}

func exportSongs(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"map_name", "title", "artist", "jd_version", "tags"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT map_name, title, artist, jd_version, tags
		FROM songs
		ORDER BY map_name
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mapName, title, tagsJSON string
			artist                   sql.NullString
			version                  int
		)
		if err := rows.Scan(&mapName, &title, &artist, &version, &tagsJSON); err != nil {
			return err
		}
		if err := w.Write([]string{mapName, title, artist.String, strconv.Itoa(version), tagsJSON}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportPlayCounts(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"week", "map_name", "count"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT week, map_name, count
		FROM play_counts
		ORDER BY week DESC, count DESC, map_name ASC
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			week, count int
			mapName     string
		)
		if err := rows.Scan(&week, &mapName, &count); err != nil {
			return err
		}
		if err := w.Write([]string{strconv.Itoa(week), mapName, strconv.Itoa(count)}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
