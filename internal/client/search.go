package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/animeverse/animeverse/internal/models"
)

// searchLimit caps the number of hits requested per search.
const searchLimit = 10

// Search runs a free-text query. Blank queries short-circuit to an empty
// result without touching the network.
func (c *client) Search(ctx context.Context, query string) []models.Anime {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Anime{}
	}
	return c.animeList(ctx, "/anime?q="+url.QueryEscape(query)+"&limit="+strconv.Itoa(searchLimit))
}

// Suggest runs Search and projects the hits for the autocomplete panel,
// keeping the API relevance order.
func (c *client) Suggest(ctx context.Context, query string) []models.Suggestion {
	return lo.Map(c.Search(ctx, query), func(a models.Anime, _ int) models.Suggestion {
		return models.NewSuggestion(a)
	})
}
