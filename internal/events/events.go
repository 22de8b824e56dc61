package events

import "time"

// EventSongPlayed is the only event type the hub emits today.
const EventSongPlayed = "song.played"

type PlayEvent struct {
	Type    string    `json:"type"`
	UserID  string    `json:"user_id"`
	MapName string    `json:"map_name"`
	Score   int       `json:"score,omitempty"`
	NewBest bool      `json:"new_best,omitempty"`
	At      time.Time `json:"at"`
}
