package models

type Song struct {
	MapName   string   `json:"mapName"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	JDVersion int      `json:"originalJDVersion"`
	Tags      []string `json:"tags"`
}

// HasTag reports whether the song carries the given tag (case-insensitive
// comparison is the caller's job; tags are stored as imported).
func (s Song) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
