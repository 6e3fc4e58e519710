package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/failsafe-go/failsafe-go"
	"github.com/getsentry/sentry-go"

	"github.com/animeverse/animeverse/internal/apperrors"
	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/metrics"
)

// maxBodySize bounds how much of a catalog response is read into memory.
const maxBodySize = 4 << 20

// attempt is the outcome of one HTTP round-trip against the catalog.
type attempt struct {
	url    string
	status int
	body   []byte
}

// envelope is the top-level shape of every Jikan response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// fetch is the single chokepoint through which every catalog call passes.
// It returns the raw "data" field, or false when there is nothing to show:
// rate limiting past the retry budget, non-2xx statuses, transport failures,
// malformed bodies and missing data all collapse to the same outcome.
func (c *client) fetch(ctx context.Context, path string) (json.RawMessage, bool) {
	logger := config.GetLogger()
	endpoint := c.baseURL + path

	res, err := failsafe.With[*attempt](c.retryPolicy).WithContext(ctx).Get(func() (*attempt, error) {
		return c.roundTrip(ctx, endpoint)
	})
	if err != nil {
		logger.Error().Err(err).Str("url", endpoint).Msg("Network fetch failed")
		metrics.JikanRequestsTotal.WithLabelValues("network_error").Inc()
		report(ctx, err, endpoint)
		return nil, false
	}

	if res.status == http.StatusTooManyRequests {
		rl := &apperrors.ErrRateLimited{URL: endpoint, Attempts: c.maxAttempts}
		logger.Warn().Err(rl).Msg("API limit still hit, giving up")
		metrics.JikanRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, false
	}

	if res.status < 200 || res.status > 299 {
		statusErr := &apperrors.ErrUpstreamStatus{URL: endpoint, StatusCode: res.status}
		logger.Error().Err(statusErr).Int("status", res.status).Msg("API error")
		metrics.JikanRequestsTotal.WithLabelValues("status_error").Inc()
		report(ctx, statusErr, endpoint)
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(res.body, &env); err != nil {
		malformed := &apperrors.ErrMalformedBody{URL: endpoint, Err: err}
		logger.Error().Err(malformed).Msg("Failed to decode API response")
		metrics.JikanRequestsTotal.WithLabelValues("malformed").Inc()
		report(ctx, malformed, endpoint)
		return nil, false
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		logger.Warn().Err(&apperrors.ErrMissingData{URL: endpoint}).Msg("API response without data")
		metrics.JikanRequestsTotal.WithLabelValues("missing_data").Inc()
		return nil, false
	}

	metrics.JikanRequestsTotal.WithLabelValues("success").Inc()
	return env.Data, true
}

// roundTrip issues a single GET and reads the (bounded) body.
func (c *client) roundTrip(ctx context.Context, endpoint string) (*attempt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	reader, err := utf8Reader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &attempt{url: endpoint, status: resp.StatusCode, body: body}, nil
}

// fetchAs fetches path and decodes its data field into T.
func fetchAs[T any](ctx context.Context, c *client, path string) (T, bool) {
	var out T
	raw, ok := c.fetch(ctx, path)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Str("path", path).Msg("Unexpected data shape")
		metrics.JikanRequestsTotal.WithLabelValues("malformed").Inc()
		return out, false
	}
	return out, true
}

// report forwards remote failures to Sentry. It is a no-op until sentry.Init
// has been called with a DSN.
func report(ctx context.Context, err error, endpoint string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("endpoint", endpoint)
		hub.CaptureException(err)
	})
}
