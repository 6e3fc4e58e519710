package client

import (
	"strings"

	"github.com/animeverse/animeverse/internal/models"
)

// cleanText trims surrounding whitespace. Records are otherwise kept as
// fetched: escaping for output happens in the render layer, so a title such
// as "<Infinite Dendrogram>" is shown as written.
func cleanText(s string) string {
	return strings.TrimSpace(s)
}

func normalizeAnime(a *models.Anime) {
	a.Title = cleanText(a.Title)
	a.Synopsis = cleanText(a.Synopsis)
	a.Type = cleanText(a.Type)
	a.Status = cleanText(a.Status)
	normalizeGenres(a.Genres)
}

func normalizeGenres(genres []models.Genre) {
	for i := range genres {
		genres[i].Name = cleanText(genres[i].Name)
	}
}

func normalizeEntity(e *models.Entity) {
	e.Name = cleanText(e.Name)
	e.Title = cleanText(e.Title)
}
