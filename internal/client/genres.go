package client

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/models"
)

// genreRetryBackoff is how long a failed taxonomy fetch is answered from the
// cache with an empty list before the API is asked again.
const genreRetryBackoff = time.Minute

// genreCache memoizes the genre taxonomy for the lifetime of the client.
// A failed or empty fetch is cached as an empty list for genreRetryBackoff,
// after which the next call tries again.
type genreCache struct {
	mu       sync.Mutex
	genres   []models.Genre
	failedAt time.Time
	now      func() time.Time
}

func (g *genreCache) clock() time.Time {
	if g.now != nil {
		return g.now()
	}
	return time.Now()
}

// Genres returns the anime genre taxonomy, fetching it at most once per client.
func (c *client) Genres(ctx context.Context) []models.Genre {
	c.genres.mu.Lock()
	defer c.genres.mu.Unlock()

	if c.genres.genres != nil {
		return slices.Clone(c.genres.genres)
	}
	if !c.genres.failedAt.IsZero() && c.genres.clock().Sub(c.genres.failedAt) < genreRetryBackoff {
		return []models.Genre{}
	}

	logger := config.GetLogger()
	list, ok := fetchAs[[]models.Genre](ctx, c, "/genres/anime")
	if !ok || len(list) == 0 {
		c.genres.failedAt = c.genres.clock()
		logger.Warn().Dur("retry_after", genreRetryBackoff).Msg("Genre taxonomy unavailable, serving empty list")
		return []models.Genre{}
	}
	normalizeGenres(list)

	logger.Debug().Int("count", len(list)).Msg("Genre taxonomy cached")

	c.genres.genres = list
	c.genres.failedAt = time.Time{}
	return slices.Clone(list)
}
