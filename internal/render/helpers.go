package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/animeverse/animeverse/internal/models"
)

const (
	// PlaceholderImage is served for records that carry no picture.
	PlaceholderImage = "/static/placeholder.svg"

	// NoResults is shown in place of an empty list.
	NoResults = "No results found."

	// SuggestionsErrorText is the inline notice of a failed suggestion lookup.
	SuggestionsErrorText = "Error loading results."

	// CompactSynopsisLen bounds synopsis text on carousel slides.
	CompactSynopsisLen = 200

	// HeroSynopsisLen bounds synopsis text in the hero panel.
	HeroSynopsisLen = 220

	ellipsis = "..."
)

// Truncate cuts s to at most n runes and appends "..." when anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:n]), isSpace) + ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// GenreLabel joins the first three genre names with " • ", or returns
// "Anime" when the record has no genres.
func GenreLabel(genres []models.Genre) string {
	names := lo.FilterMap(lo.Slice(genres, 0, 3), func(g models.Genre, _ int) (string, bool) {
		return g.Name, g.Name != ""
	})
	if len(names) == 0 {
		return "Anime"
	}
	return strings.Join(names, " • ")
}

// ImageOr returns url, or PlaceholderImage when url is blank.
func ImageOr(url string) string {
	if strings.TrimSpace(url) == "" {
		return PlaceholderImage
	}
	return url
}

// Score formats an optional score, "N/A" when absent.
func Score(score *float64) string {
	if score == nil || *score == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// IntOr formats an optional count, def when absent.
func IntOr(v *int, def string) string {
	if v == nil || *v == 0 {
		return def
	}
	return strconv.Itoa(*v)
}

func textOr(def, s string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func genreList(genres []models.Genre) string {
	names := lo.Map(genres, func(g models.Genre, _ int) string { return g.Name })
	return textOr("—", strings.Join(names, ", "))
}
