package models

// Images holds the picture variants Jikan publishes for an entity
type Images struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		SmallImageURL string `json:"small_image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

// Genre is one entry of the genre taxonomy or of an anime's genre list
type Genre struct {
	ID    int    `json:"mal_id"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// Anime represents a catalog record as returned by Jikan.
// Optional numeric fields are pointers so that "absent" stays distinguishable from zero.
type Anime struct {
	ID       int      `json:"mal_id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Images   Images   `json:"images"`
	Type     string   `json:"type"`
	Status   string   `json:"status"`
	Episodes *int     `json:"episodes"`
	Score    *float64 `json:"score"`
	Year     *int     `json:"year"`
	Synopsis string   `json:"synopsis"`
	Genres   []Genre  `json:"genres"`
}

// IsZero reports whether the record is the empty placeholder returned when a lookup fails
func (a Anime) IsZero() bool {
	return a.ID == 0 && a.Title == ""
}

// ImageURL returns the regular poster URL, or "" when Jikan did not provide one
func (a Anime) ImageURL() string {
	return a.Images.JPG.ImageURL
}

// LargeImageURL prefers the large poster and falls back to the regular one
func (a Anime) LargeImageURL() string {
	if a.Images.JPG.LargeImageURL != "" {
		return a.Images.JPG.LargeImageURL
	}
	return a.Images.JPG.ImageURL
}

// GenreNames returns the genre names in API order
func (a Anime) GenreNames() []string {
	names := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		names = append(names, g.Name)
	}
	return names
}
