package songs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dancehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// LoadAll reads the whole songs table. The catalog is built from this once at
// startup; a failure here is fatal for the service.
func (r *Repo) LoadAll(ctx context.Context) (map[string]models.Song, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT map_name, title, artist, jd_version, tags
		FROM songs
	`)
	if err != nil {
		return nil, fmt.Errorf("load songs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.Song)
	for rows.Next() {
		var (
			s        models.Song
			artist   sql.NullString
			tagsJSON string
		)
		if err := rows.Scan(&s.MapName, &s.Title, &artist, &s.JDVersion, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		s.Artist = artist.String
		_ = json.Unmarshal([]byte(tagsJSON), &s.Tags)
		out[s.MapName] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return total, nil
}
