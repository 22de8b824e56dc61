package profile

import (
	"context"
	"database/sql"
	"fmt"

	"dancehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// GetProfile assembles the read-side aggregate the carousel consumes.
// Unknown users return (nil, nil); a user with no activity gets an empty
// profile, which downstream code treats as "skip the personalized shelves".
func (r *Repo) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var exists int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE id = ?
	`, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if exists == 0 {
		return nil, nil
	}

	p := &models.Profile{
		UserID:    userID,
		History:   make(map[string]int),
		Favorites: make(map[string]bool),
		Scores:    make(map[string]models.ScoreRecord),
	}

	if err := r.loadHistory(ctx, p); err != nil {
		return nil, err
	}
	if err := r.loadFavorites(ctx, p); err != nil {
		return nil, err
	}
	if err := r.loadScores(ctx, p); err != nil {
		return nil, err
	}
	if err := r.loadSongsPlayed(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) loadHistory(ctx context.Context, p *models.Profile) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT map_name, play_count FROM user_history WHERE user_id = ?
	`, p.UserID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mapName string
		var count int
		if err := rows.Scan(&mapName, &count); err != nil {
			return fmt.Errorf("scan history: %w", err)
		}
		p.History[mapName] = count
	}
	return rows.Err()
}

func (r *Repo) loadFavorites(ctx context.Context, p *models.Profile) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT map_name FROM user_favorites WHERE user_id = ?
	`, p.UserID)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mapName string
		if err := rows.Scan(&mapName); err != nil {
			return fmt.Errorf("scan favorite: %w", err)
		}
		p.Favorites[mapName] = true
	}
	return rows.Err()
}

func (r *Repo) loadScores(ctx context.Context, p *models.Profile) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT map_name, high_score, times_played FROM user_scores WHERE user_id = ?
	`, p.UserID)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mapName string
		var rec models.ScoreRecord
		if err := rows.Scan(&mapName, &rec.HighScore, &rec.TimesPlayed); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}
		p.Scores[mapName] = rec
	}
	return rows.Err()
}

func (r *Repo) loadSongsPlayed(ctx context.Context, p *models.Profile) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT map_name FROM user_songs_played
		WHERE user_id = ?
		ORDER BY id ASC
	`, p.UserID)
	if err != nil {
		return fmt.Errorf("load songs played: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mapName string
		if err := rows.Scan(&mapName); err != nil {
			return fmt.Errorf("scan song played: %w", err)
		}
		p.SongsPlayed = append(p.SongsPlayed, mapName)
	}
	return rows.Err()
}

func (r *Repo) AddFavorite(ctx context.Context, userID, mapName string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_favorites (user_id, map_name)
		VALUES (?, ?)
		ON CONFLICT(user_id, map_name) DO NOTHING
	`, userID, mapName)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *Repo) RemoveFavorite(ctx context.Context, userID, mapName string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM user_favorites
		WHERE user_id = ? AND map_name = ?
	`, userID, mapName)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// RecordPlay applies one play-end event: bumps the history counter, appends to
// the played list and folds the score into the user's best. All three writes
// share one transaction so a half-recorded play never surfaces.
func (r *Repo) RecordPlay(ctx context.Context, userID, mapName string, score int) (newBest bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin record play: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO user_history (user_id, map_name, play_count)
		VALUES (?, ?, 1)
		ON CONFLICT(user_id, map_name) DO UPDATE SET
			play_count = play_count + 1
	`, userID, mapName); err != nil {
		return false, fmt.Errorf("bump history: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO user_songs_played (user_id, map_name)
		VALUES (?, ?)
	`, userID, mapName); err != nil {
		return false, fmt.Errorf("append songs played: %w", err)
	}

	var prevBest sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT high_score FROM user_scores
		WHERE user_id = ? AND map_name = ?
	`, userID, mapName).Scan(&prevBest)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("read previous best: %w", err)
	}
	err = nil

	newBest = !prevBest.Valid || score > int(prevBest.Int64)

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO user_scores (user_id, map_name, high_score, times_played)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(user_id, map_name) DO UPDATE SET
			high_score = MAX(high_score, excluded.high_score),
			times_played = times_played + 1,
			updated_at = CASE WHEN excluded.high_score > high_score
				THEN CURRENT_TIMESTAMP ELSE updated_at END
	`, userID, mapName, score); err != nil {
		return false, fmt.Errorf("fold score: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit record play: %w", err)
	}
	return newBest, nil
}
