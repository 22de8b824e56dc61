package models

// ScoreRecord is one user's best result on one map.
type ScoreRecord struct {
	HighScore   int `json:"high_score"`
	TimesPlayed int `json:"times_played"`
}

// Profile is the read-side aggregate the carousel composer consumes.
// It is a snapshot: mutating it never touches stored state.
type Profile struct {
	UserID    string                 `json:"user_id"`
	History   map[string]int         `json:"history"`   // mapName -> play count
	Favorites map[string]bool        `json:"favorites"` // mapName -> marked
	Scores    map[string]ScoreRecord `json:"scores"`    // mapName -> best result
	// SongsPlayed is chronological, oldest first.
	SongsPlayed []string `json:"songs_played"`
}
