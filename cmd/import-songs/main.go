package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"dancehub/internal/importer"
	"dancehub/pkg/database"
)

func main() {
	var (
		bundleIn  = flag.String("bundle", "data/songdb.json", "input song bundle JSON path")
		mirrorURL = flag.String("mirror", "", "optional mirror base URL (e.g. http://localhost:9000)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	var sources []importer.Source
	if strings.TrimSpace(*bundleIn) != "" {
		sources = append(sources, importer.NewLocalSource(*bundleIn))
	}
	if strings.TrimSpace(*mirrorURL) != "" {
		sources = append(sources, importer.NewMirrorSource(*mirrorURL))
	}
	if len(sources) == 0 {
		log.Fatal("nothing to import: provide -bundle and/or -mirror")
	}

	agg := importer.NewAggregator(sources...)
	songs, err := agg.FetchAndMerge(ctx)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
	if len(songs) == 0 {
		log.Fatal("no songs fetched; refusing to touch the catalog")
	}

	if err := importer.SaveToDatabase(ctx, db, songs); err != nil {
		log.Fatalf("save failed: %v", err)
	}

	log.Printf("imported %d songs into the catalog", len(songs))
}
