package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"dancehub/pkg/database"
	"dancehub/pkg/models"
)

func main() {
	var (
		outPath = flag.String("out", "data/songdb.json", "output JSON bundle path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT map_name, title, artist, jd_version, tags
		FROM songs
		ORDER BY map_name
	`)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	bundle := make(map[string]models.Song)
	for rows.Next() {
		var (
			s        models.Song
			artist   sql.NullString
			tagsJSON string
		)
		if err := rows.Scan(&s.MapName, &s.Title, &artist, &s.JDVersion, &tagsJSON); err != nil {
			log.Fatalf("scan failed: %v", err)
		}
		s.Artist = artist.String
		_ = json.Unmarshal([]byte(tagsJSON), &s.Tags)
		bundle[s.MapName] = s
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("rows error: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}

	b, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}

	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("exported %d songs to %s", len(bundle), *outPath)
}
