package render

import (
	"time"

	"github.com/animeverse/animeverse/internal/models"
)

// Layout carries the state shared by every full page.
type Layout struct {
	Title  string
	Theme  string
	Query  string
	Recent []string
}

// CarouselView is a snapshot of the hero carousel.
type CarouselView struct {
	Slides   []models.Anime
	Index    int
	// Interval is the autoplay period the page script polls at.
	Interval time.Duration
}

// Current returns the active slide, or a zero record when there are none.
func (c CarouselView) Current() models.Anime {
	if c.Index < 0 || c.Index >= len(c.Slides) {
		return models.Anime{}
	}
	return c.Slides[c.Index]
}

// DetailView is everything shown on a record's page.
type DetailView struct {
	Anime           models.Anime
	Favorite        bool
	Characters      []models.CharacterRole
	Staff           []models.StaffMember
	Recommendations []models.Recommendation
	Themes          models.Themes
}

// PagerView links a pagination control to the listing at Base.
type PagerView struct {
	Base string
	models.Pagination
}

// HomeView is the landing page.
type HomeView struct {
	Layout
	Carousel CarouselView
	Trending []models.Anime
	Airing   []models.Anime
}

// SearchView lists results for Layout.Query.
type SearchView struct {
	Layout
	Results []models.Anime
}

// GenreView is the genre index, or one genre's listing when Genre.ID is set.
type GenreView struct {
	Layout
	Genres  []models.Genre
	Genre   models.Genre
	Results []models.Anime
	Pager   PagerView
}

// AnimeView is a record's page.
type AnimeView struct {
	Layout
	Detail DetailView
}

// FavoritesView lists the visitor's favorites.
type FavoritesView struct {
	Layout
	Favorites []models.Anime
}

// TopView is one page of a top ranking.
type TopView struct {
	Layout
	Filter  models.TopFilter
	Filters []models.TopFilter
	Results []models.Anime
	Pager   PagerView
}
