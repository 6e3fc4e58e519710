package client

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/animeverse/animeverse/internal/models"
)

// AnimeDetails fetches a single record. A failed lookup yields a zero models.Anime.
func (c *client) AnimeDetails(ctx context.Context, id int) models.Anime {
	a, ok := fetchAs[models.Anime](ctx, c, fmt.Sprintf("/anime/%d", id))
	if !ok {
		return models.Anime{}
	}
	normalizeAnime(&a)
	return a
}

// TopAnime fetches one page of a top ranking.
func (c *client) TopAnime(ctx context.Context, filter models.TopFilter, page int) []models.Anime {
	return c.animeList(ctx, fmt.Sprintf("/top/anime?page=%d&filter=%s", clampPage(page), filter))
}

// Trending returns the first limit records of the popularity ranking.
func (c *client) Trending(ctx context.Context, limit int) []models.Anime {
	return c.firstOfTop(ctx, models.TopByPopularity, limit)
}

// TopAiring returns the first limit records of the currently-airing ranking.
func (c *client) TopAiring(ctx context.Context, limit int) []models.Anime {
	return c.firstOfTop(ctx, models.TopAiring, limit)
}

// AnimeByGenre lists records of a genre, best scored first.
func (c *client) AnimeByGenre(ctx context.Context, genreID, page int) []models.Anime {
	return c.animeList(ctx, fmt.Sprintf("/anime?genres=%d&order_by=score&sort=desc&page=%d", genreID, clampPage(page)))
}

func (c *client) firstOfTop(ctx context.Context, filter models.TopFilter, limit int) []models.Anime {
	if limit <= 0 {
		limit = defaultListLimit
	}
	list := c.animeList(ctx, fmt.Sprintf("/top/anime?filter=%s", filter))
	return lo.Slice(list, 0, limit)
}

func (c *client) animeList(ctx context.Context, path string) []models.Anime {
	list, ok := fetchAs[[]models.Anime](ctx, c, path)
	if !ok || list == nil {
		return []models.Anime{}
	}
	for i := range list {
		normalizeAnime(&list[i])
	}
	return list
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
