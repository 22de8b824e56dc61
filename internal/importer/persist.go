package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dancehub/pkg/models"
)

// SaveToDatabase upserts the merged song set into the songs table. One
// transaction for the whole batch: a failed import leaves the catalog as it
// was.
func SaveToDatabase(ctx context.Context, db *sql.DB, songs []models.Song) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO songs (map_name, title, artist, jd_version, tags)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(map_name) DO UPDATE SET
		  title = excluded.title,
		  artist = excluded.artist,
		  jd_version = excluded.jd_version,
		  tags = excluded.tags
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, s := range songs {
		tagsJSON, err := json.Marshal(s.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", s.MapName, err)
		}
		if s.Tags == nil {
			tagsJSON = []byte("[]")
		}

		if _, err := stmt.ExecContext(
			ctx,
			s.MapName,
			s.Title,
			s.Artist,
			s.JDVersion,
			string(tagsJSON),
		); err != nil {
			return fmt.Errorf("upsert song %s: %w", s.MapName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
