package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/metrics"
	"github.com/animeverse/animeverse/internal/models"
)

const (
	defaultMaxAttempts = 4
	defaultRetryDelay  = 1300 * time.Millisecond
	defaultListLimit   = 15
)

// Client defines the typed accessors over the Jikan catalog API.
//
// Accessors never return errors: every failure is absorbed by the fetch
// gateway and surfaces as an empty value. List accessors return non-nil empty
// slices, AnimeDetails returns a zero models.Anime.
type Client interface {
	AnimeDetails(ctx context.Context, id int) models.Anime
	TopAnime(ctx context.Context, filter models.TopFilter, page int) []models.Anime
	Trending(ctx context.Context, limit int) []models.Anime
	TopAiring(ctx context.Context, limit int) []models.Anime
	Search(ctx context.Context, query string) []models.Anime
	Suggest(ctx context.Context, query string) []models.Suggestion
	AnimeByGenre(ctx context.Context, genreID, page int) []models.Anime
	Genres(ctx context.Context) []models.Genre

	Characters(ctx context.Context, id int) []models.CharacterRole
	Staff(ctx context.Context, id int) []models.StaffMember
	Recommendations(ctx context.Context, id int) []models.Recommendation
	Themes(ctx context.Context, id int) models.Themes

	// Close releases idle connections held by the underlying HTTP client.
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient  *http.Client
	baseURL     string
	retryPolicy retrypolicy.RetryPolicy[*attempt]
	maxAttempts int
	genres      genreCache
}

// NewClient creates a new client instance with proxy and retry configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()
	timeout := config.Duration("client_timeout", cfg.ClientTimeout, 30*time.Second)

	// Clone DefaultTransport to preserve its pooling, timeouts and HTTP/2 settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.GetUserAgent()
	}

	baseURL := strings.TrimRight(cfg.JikanBaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultJikanBaseURL
	}

	maxAttempts := cfg.Retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	delay := config.Duration("retry.delay", cfg.Retry.Delay, defaultRetryDelay)

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newJikanTransport(baseTransport, userAgent),
		},
		baseURL:     baseURL,
		retryPolicy: newRateLimitPolicy(maxAttempts, delay),
		maxAttempts: maxAttempts,
	}
}

// newRateLimitPolicy retries only on HTTP 429, with a fixed delay, and hands the
// last rate-limited attempt back to the caller once attempts are exhausted.
func newRateLimitPolicy(maxAttempts int, delay time.Duration) retrypolicy.RetryPolicy[*attempt] {
	return retrypolicy.NewBuilder[*attempt]().
		HandleIf(func(a *attempt, _ error) bool {
			return a != nil && a.status == http.StatusTooManyRequests
		}).
		WithMaxAttempts(maxAttempts).
		WithDelay(delay).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[*attempt]) {
			metrics.JikanRetriesTotal.Inc()
			logger := config.GetLogger()
			ev := logger.Warn().Int("attempt", e.Attempts()).Dur("delay", delay)
			if last := e.LastResult(); last != nil {
				ev = ev.Str("url", last.url)
			}
			ev.Msg("API limit hit, retrying")
		}).
		Build()
}

// Close releases any idle connections held by the HTTP client.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
