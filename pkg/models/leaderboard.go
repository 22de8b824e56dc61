package models

import "time"

// LeaderboardEntry is one user's placement on one song's leaderboard.
type LeaderboardEntry struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	MapName     string    `json:"map_name"`
	HighScore   int       `json:"high_score"`
	TimesPlayed int       `json:"times_played"`
	UpdatedAt   time.Time `json:"updated_at"`
}
