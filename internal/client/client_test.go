package client

import (
	"bytes"
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/metrics"
	"github.com/animeverse/animeverse/internal/models"
	"github.com/animeverse/animeverse/internal/render"
	"github.com/animeverse/animeverse/internal/testutil"
)

// newTestClient builds a client against server with the default retry budget
// and a 1ms retry delay.
func newTestClient(serverURL string) Client {
	return newTestClientWithAttempts(serverURL, 0)
}

func newTestClientWithAttempts(serverURL string, maxAttempts int) Client {
	testConfig := &config.Config{
		JikanBaseURL:  serverURL,
		ClientTimeout: "10s",
	}
	testConfig.Retry.MaxAttempts = maxAttempts
	testConfig.Retry.Delay = "1ms"
	return NewClient(testConfig)
}

func TestClient_AnimeDetails(t *testing.T) {
	body := testutil.DataEnvelope(testutil.GenerateAnimeJSON(testutil.AnimeOptions{
		ID:       20,
		Title:    "Naruto",
		ImageURL: "https://cdn.example/20.jpg",
		Type:     "TV",
		Score:    testutil.FloatPtr(8.0),
		Episodes: testutil.IntPtr(220),
		Synopsis: "Ninja story.",
		Genres:   []string{"Action", "Adventure"},
	}))
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/20": testutil.JSON(body),
	})

	a := newTestClient(server.URL).AnimeDetails(context.Background(), 20)

	if a.ID != 20 || a.Title != "Naruto" {
		t.Fatalf("unexpected record: %+v", a)
	}
	if a.Score == nil || *a.Score != 8.0 {
		t.Errorf("Score = %v, want 8.0", a.Score)
	}
	if a.ImageURL() != "https://cdn.example/20.jpg" {
		t.Errorf("ImageURL() = %q", a.ImageURL())
	}
	if len(a.Genres) != 2 {
		t.Errorf("expected 2 genres, got %d", len(a.Genres))
	}
}

func TestClient_AnimeDetails_FailureYieldsZeroRecord(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/1": testutil.Status(http.StatusInternalServerError),
	})

	a := newTestClient(server.URL).AnimeDetails(context.Background(), 1)
	if !a.IsZero() {
		t.Errorf("expected zero record, got %+v", a)
	}
}

func TestClient_RateLimited_GivesUpAfterThreeRetries(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/5": testutil.Status(http.StatusTooManyRequests),
	})
	retriesBefore := promtestutil.ToFloat64(metrics.JikanRetriesTotal)

	a := newTestClient(server.URL).AnimeDetails(context.Background(), 5)

	if !a.IsZero() {
		t.Errorf("expected zero record after exhausting retries, got %+v", a)
	}
	// One initial request plus three retries, never a fourth retry.
	if hits := server.Hits("/anime/5"); hits != 4 {
		t.Errorf("expected exactly 4 requests, got %d", hits)
	}
	if retries := promtestutil.ToFloat64(metrics.JikanRetriesTotal) - retriesBefore; retries != 3 {
		t.Errorf("expected 3 retries, got %v", retries)
	}
}

func TestClient_RateLimited_ConfiguredAttempts(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/5": testutil.Status(http.StatusTooManyRequests),
	})

	newTestClientWithAttempts(server.URL, 2).AnimeDetails(context.Background(), 5)

	if hits := server.Hits("/anime/5"); hits != 2 {
		t.Errorf("expected 2 requests, got %d", hits)
	}
}

func TestClient_RateLimited_RecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	body := testutil.DataEnvelope(testutil.GenerateAnimeJSON(testutil.AnimeOptions{ID: 7, Title: "Bleach"}))
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/7": func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 4 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			testutil.JSON(body)(w, r)
		},
	})

	a := newTestClient(server.URL).AnimeDetails(context.Background(), 7)

	if a.Title != "Bleach" {
		t.Errorf("expected Bleach on the last retry, got %+v", a)
	}
	if hits := server.Hits("/anime/7"); hits != 4 {
		t.Errorf("expected 4 requests, got %d", hits)
	}
}

func TestClient_NonRateLimitErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"bad request", http.StatusBadRequest},
		{"server error", http.StatusInternalServerError},
		{"unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
				"/top/anime": testutil.Status(tt.status),
			})

			list := newTestClient(server.URL).TopAnime(context.Background(), models.TopAiring, 1)

			if list == nil || len(list) != 0 {
				t.Errorf("expected empty non-nil list, got %v", list)
			}
			if hits := server.Hits("/top/anime"); hits != 1 {
				t.Errorf("expected a single attempt, got %d", hits)
			}
		})
	}
}

func TestClient_MalformedAndMissingData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"data": [`},
		{"no data field", `{"pagination": {}}`},
		{"null data", `{"data": null}`},
		{"wrong shape", `{"data": {"mal_id": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
				"/anime": testutil.JSON(tt.body),
			})

			list := newTestClient(server.URL).Search(context.Background(), "naruto")
			if list == nil || len(list) != 0 {
				t.Errorf("expected empty non-nil list, got %v", list)
			}
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	server := testutil.NewJikanServer(t, nil)
	url := server.URL
	server.Close()

	list := newTestClient(url).TopAiring(context.Background(), 5)
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil list, got %v", list)
	}
}

func TestClient_Search(t *testing.T) {
	var gotQuery, gotLimit string
	body := testutil.DataEnvelope(testutil.GenerateAnimeListJSON([]testutil.AnimeOptions{
		{ID: 20, Title: "Naruto"},
		{ID: 1735, Title: "Naruto: Shippuuden"},
	}))
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotLimit = r.URL.Query().Get("limit")
			testutil.JSON(body)(w, r)
		},
	})

	list := newTestClient(server.URL).Search(context.Background(), "  naruto shippuden  ")

	if len(list) != 2 {
		t.Fatalf("expected 2 results, got %d", len(list))
	}
	if gotQuery != "naruto shippuden" {
		t.Errorf("expected trimmed query, got %q", gotQuery)
	}
	if gotLimit != "10" {
		t.Errorf("expected limit=10, got %q", gotLimit)
	}
}

func TestClient_Search_BlankQueryMakesNoRequest(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime": testutil.JSON(testutil.DataEnvelope("[]")),
	})
	c := newTestClient(server.URL)

	for _, q := range []string{"", " ", "\t\n", "   "} {
		if list := c.Search(context.Background(), q); list == nil || len(list) != 0 {
			t.Errorf("Search(%q) = %v, want empty list", q, list)
		}
		if s := c.Suggest(context.Background(), q); len(s) != 0 {
			t.Errorf("Suggest(%q) = %v, want empty list", q, s)
		}
	}

	if hits := server.TotalHits(); hits != 0 {
		t.Errorf("expected no network calls, got %d", hits)
	}
}

func TestClient_Suggest_KeepsRelevanceOrder(t *testing.T) {
	body := testutil.DataEnvelope(testutil.GenerateAnimeListJSON([]testutil.AnimeOptions{
		{ID: 3, Title: "C", Type: "TV", Year: testutil.IntPtr(2001)},
		{ID: 1, Title: "A", Type: "Movie"},
		{ID: 2, Title: "B", ImageURL: "https://cdn/b.jpg"},
	}))
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime": testutil.JSON(body),
	})

	s := newTestClient(server.URL).Suggest(context.Background(), "x")

	if len(s) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(s))
	}
	for i, wantID := range []int{3, 1, 2} {
		if s[i].ID != wantID {
			t.Errorf("suggestion %d: ID = %d, want %d", i, s[i].ID, wantID)
		}
	}
	if s[0].Year == nil || *s[0].Year != 2001 {
		t.Errorf("expected year 2001 on first suggestion")
	}
	if s[2].ImageURL != "https://cdn/b.jpg" {
		t.Errorf("ImageURL = %q", s[2].ImageURL)
	}
}

func TestClient_TopAnime_QueryParameters(t *testing.T) {
	var gotPage, gotFilter string
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/top/anime": func(w http.ResponseWriter, r *http.Request) {
			gotPage = r.URL.Query().Get("page")
			gotFilter = r.URL.Query().Get("filter")
			testutil.JSON(testutil.DataEnvelope("[]"))(w, r)
		},
	})

	newTestClient(server.URL).TopAnime(context.Background(), models.TopUpcoming, 0)

	if gotPage != "1" {
		t.Errorf("expected page clamped to 1, got %q", gotPage)
	}
	if gotFilter != "upcoming" {
		t.Errorf("expected filter upcoming, got %q", gotFilter)
	}
}

func TestClient_Trending_TruncatesToLimit(t *testing.T) {
	rows := make([]testutil.AnimeOptions, 25)
	for i := range rows {
		rows[i] = testutil.AnimeOptions{ID: i + 1, Title: "T"}
	}
	var gotFilter string
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/top/anime": func(w http.ResponseWriter, r *http.Request) {
			gotFilter = r.URL.Query().Get("filter")
			testutil.JSON(testutil.DataEnvelope(testutil.GenerateAnimeListJSON(rows)))(w, r)
		},
	})
	c := newTestClient(server.URL)

	if got := len(c.Trending(context.Background(), 5)); got != 5 {
		t.Errorf("Trending(5) returned %d records", got)
	}
	if gotFilter != "bypopularity" {
		t.Errorf("expected bypopularity filter, got %q", gotFilter)
	}
	if got := len(c.Trending(context.Background(), 0)); got != defaultListLimit {
		t.Errorf("Trending(0) returned %d records, want %d", got, defaultListLimit)
	}
}

func TestClient_AnimeByGenre(t *testing.T) {
	var query map[string]string
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			query = map[string]string{
				"genres":   q.Get("genres"),
				"order_by": q.Get("order_by"),
				"sort":     q.Get("sort"),
				"page":     q.Get("page"),
			}
			testutil.JSON(testutil.DataEnvelope(testutil.GenerateAnimeListJSON([]testutil.AnimeOptions{{ID: 1, Title: "A"}})))(w, r)
		},
	})

	list := newTestClient(server.URL).AnimeByGenre(context.Background(), 4, 3)

	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
	want := map[string]string{"genres": "4", "order_by": "score", "sort": "desc", "page": "3"}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("query %s = %q, want %q", k, query[k], v)
		}
	}
}

func TestClient_Genres_CachedAfterFirstSuccess(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/genres/anime": testutil.JSON(testutil.DataEnvelope(testutil.GenerateGenresJSON("Action", "Comedy", "Drama"))),
	})
	c := newTestClient(server.URL)

	first := c.Genres(context.Background())
	second := c.Genres(context.Background())

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 genres on both calls, got %d and %d", len(first), len(second))
	}
	if hits := server.Hits("/genres/anime"); hits != 1 {
		t.Errorf("expected a single network call, got %d", hits)
	}

	// Mutating a returned slice must not leak into the cache.
	first[0].Name = "mutated"
	if third := c.Genres(context.Background()); third[0].Name != "Action" {
		t.Errorf("cache was mutated through returned slice: %q", third[0].Name)
	}
}

func TestClient_Genres_FailureCachedUntilBackoff(t *testing.T) {
	var calls atomic.Int32
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/genres/anime": func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			testutil.JSON(testutil.DataEnvelope(testutil.GenerateGenresJSON("Action")))(w, r)
		},
	})
	c := newTestClient(server.URL).(*client)
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c.genres.now = func() time.Time { return now }

	if got := c.Genres(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("expected empty list on failure, got %v", got)
	}
	if got := c.Genres(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("expected cached empty list inside the back-off, got %v", got)
	}
	if hits := server.Hits("/genres/anime"); hits != 1 {
		t.Fatalf("expected no round-trip inside the back-off, got %d calls", hits)
	}

	now = now.Add(genreRetryBackoff)
	if got := c.Genres(context.Background()); len(got) != 1 {
		t.Errorf("expected genres once the back-off elapsed, got %v", got)
	}
	c.Genres(context.Background())
	if hits := server.Hits("/genres/anime"); hits != 2 {
		t.Errorf("expected 2 network calls, got %d", hits)
	}
}

func TestClient_KeepsTextVerbatim(t *testing.T) {
	const (
		title    = "<Infinite Dendrogram>"
		synopsis = "<script>alert(1)</script>Bleach & a<b>c"
	)
	body := testutil.DataEnvelope(testutil.GenerateAnimeJSON(testutil.AnimeOptions{
		ID:       9,
		Title:    "  " + title + "\n",
		Synopsis: synopsis,
		Genres:   []string{" <i>Comedy</i> "},
	}))
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/9": testutil.JSON(body),
	})

	a := newTestClient(server.URL).AnimeDetails(context.Background(), 9)

	if a.Title != title {
		t.Errorf("Title = %q, want %q", a.Title, title)
	}
	if a.Synopsis != synopsis {
		t.Errorf("Synopsis = %q, want %q", a.Synopsis, synopsis)
	}
	if a.Genres[0].Name != "<i>Comedy</i>" {
		t.Errorf("genre name = %q, want only surrounding space trimmed", a.Genres[0].Name)
	}

	r, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Detail(&buf, render.DetailView{Anime: a}); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	doc := testutil.ParseHTML(t, buf.Bytes())
	if got := doc.Find(".anime-detail h1").Text(); got != title {
		t.Errorf("rendered title = %q, want %q", got, title)
	}
	if got := doc.Find(".synopsis").Text(); got != synopsis {
		t.Errorf("rendered synopsis = %q, want %q", got, synopsis)
	}
	if n := doc.Find("script, b, i").Length(); n != 0 {
		t.Errorf("record text produced %d elements, want it escaped", n)
	}
}

func TestClient_SendsHeaders(t *testing.T) {
	var accept, userAgent string
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/1": func(w http.ResponseWriter, r *http.Request) {
			accept = r.Header.Get("Accept")
			userAgent = r.Header.Get("User-Agent")
			testutil.JSON(testutil.DataEnvelope(`{"mal_id":1,"title":"x"}`))(w, r)
		},
	})

	cfg := &config.Config{JikanBaseURL: server.URL, UserAgent: "animeverse-test"}
	NewClient(cfg).AnimeDetails(context.Background(), 1)

	if accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
	if userAgent != "animeverse-test" {
		t.Errorf("User-Agent = %q", userAgent)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/1": testutil.Status(http.StatusTooManyRequests),
	})
	cfg := &config.Config{JikanBaseURL: server.URL}
	cfg.Retry.Delay = "1h"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if a := NewClient(cfg).AnimeDetails(ctx, 1); !a.IsZero() {
		t.Errorf("expected zero record for cancelled context, got %+v", a)
	}
}
