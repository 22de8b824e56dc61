package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dancehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// TopForSong lists the best scores on one map, highest first. Ties go to
// whoever got there first.
func (r *Repo) TopForSong(ctx context.Context, mapName string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.user_id, u.username, s.map_name, s.high_score, s.times_played, s.updated_at
		FROM user_scores s
		JOIN users u ON u.id = s.user_id
		WHERE s.map_name = ?
		ORDER BY s.high_score DESC, s.updated_at ASC
		LIMIT ?
	`, mapName, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		var updated time.Time
		if err := rows.Scan(&e.UserID, &e.Username, &e.MapName, &e.HighScore, &e.TimesPlayed, &updated); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		e.UpdatedAt = updated
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Rank returns a user's 1-based position on one map's board, or 0 when the
// user has no score there.
func (r *Repo) Rank(ctx context.Context, mapName, userID string) (int, error) {
	var mine sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `
		SELECT high_score FROM user_scores
		WHERE map_name = ? AND user_id = ?
	`, mapName, userID).Scan(&mine)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read own score: %w", err)
	}

	var better int
	err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_scores
		WHERE map_name = ? AND high_score > ?
	`, mapName, mine.Int64).Scan(&better)
	if err != nil {
		return 0, fmt.Errorf("count better scores: %w", err)
	}
	return better + 1, nil
}
