package models

// Suggestion is the reduced projection of an Anime used by the autocomplete panel
type Suggestion struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Type     string `json:"type"`
	Year     *int   `json:"year,omitempty"`
}

// NewSuggestion projects a record onto a suggestion
func NewSuggestion(a Anime) Suggestion {
	return Suggestion{
		ID:       a.ID,
		Title:    a.Title,
		ImageURL: a.ImageURL(),
		Type:     a.Type,
		Year:     a.Year,
	}
}
