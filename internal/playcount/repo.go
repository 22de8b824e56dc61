package playcount

import (
	"context"
	"database/sql"
	"fmt"
)

// Entry is one song's aggregate for one week.
type Entry struct {
	MapName string `json:"map_name"`
	Count   int    `json:"count"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) CurrentWeek() int {
	return CurrentWeek()
}

// Increment bumps the counter for (current week, mapName), creating the bucket
// if absent. The upsert is a single statement so concurrent play-end events on
// the same song never lose updates.
func (r *Repo) Increment(ctx context.Context, mapName string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO play_counts (week, map_name, count)
		VALUES (?, ?, 1)
		ON CONFLICT(week, map_name) DO UPDATE SET
			count = count + 1
	`, CurrentWeek(), mapName)
	if err != nil {
		return fmt.Errorf("increment play count: %w", err)
	}
	return nil
}

// TopSongsForWeek lists the week's songs by count descending. Ties break on
// ascending map name so identical states always produce identical output.
func (r *Repo) TopSongsForWeek(ctx context.Context, week int) ([]Entry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT map_name, count
		FROM play_counts
		WHERE week = ?
		ORDER BY count DESC, map_name ASC
	`, week)
	if err != nil {
		return nil, fmt.Errorf("top songs for week: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.MapName, &e.Count); err != nil {
			return nil, fmt.Errorf("scan play count: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
