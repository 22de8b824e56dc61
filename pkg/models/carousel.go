package models

// Item references exactly one song. Action tells the client what launching
// the item does; it varies per carousel variant.
type Item struct {
	MapName string `json:"mapName"`
	Action  string `json:"action"`
}

// Category is one named shelf of items in a carousel payload. Act controls
// client-side rendering (song shelf vs. structural placeholder).
type Category struct {
	Title string `json:"title"`
	Act   string `json:"act"`
	Items []Item `json:"items"`
}

// CarouselPayload is the full ordered carousel returned for one request.
type CarouselPayload struct {
	ActionLists string     `json:"actionLists"`
	Categories  []Category `json:"categories"`
}

// Clone returns a fully independent copy so callers can hand the payload
// to code that mutates it without sharing backing arrays.
func (p *CarouselPayload) Clone() *CarouselPayload {
	if p == nil {
		return nil
	}
	out := &CarouselPayload{
		ActionLists: p.ActionLists,
		Categories:  make([]Category, len(p.Categories)),
	}
	for i, cat := range p.Categories {
		c := Category{Title: cat.Title, Act: cat.Act}
		if cat.Items != nil {
			c.Items = make([]Item, len(cat.Items))
			copy(c.Items, cat.Items)
		}
		out.Categories[i] = c
	}
	return out
}
