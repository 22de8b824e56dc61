package models

// PlaylistDefinition is one entry of the static playlist config file.
// Weekly rotating playlists are named "<weekly-prefix><week-number>";
// everything else is a permanent shelf.
type PlaylistDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Songs       []string `json:"songs"`
}
