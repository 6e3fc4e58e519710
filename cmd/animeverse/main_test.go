package main

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/testutil"
)

// pointConfigAt redirects the process config to a fake catalog for one test.
func pointConfigAt(t *testing.T, url string) {
	t.Helper()
	cfg := config.GetConfig()
	oldURL, oldDelay := cfg.JikanBaseURL, cfg.Retry.Delay
	cfg.JikanBaseURL = url
	cfg.Retry.Delay = "1ms"
	t.Cleanup(func() {
		cfg.JikanBaseURL = oldURL
		cfg.Retry.Delay = oldDelay
	})
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestSearchCommand(t *testing.T) {
	body := testutil.DataEnvelope(testutil.GenerateAnimeListJSON([]testutil.AnimeOptions{
		{ID: 20, Title: "Naruto", Score: testutil.FloatPtr(8), Genres: []string{"Action"}},
	}))
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "naruto shippuden" {
				t.Errorf("q = %q", got)
			}
			testutil.JSON(body)(w, r)
		},
	})
	pointConfigAt(t, server.URL)

	out := runCommand(t, "search", "naruto", "shippuden")
	if !strings.Contains(out, "Naruto") || !strings.Contains(out, "⭐ 8") || !strings.Contains(out, "Action") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSearchCommand_NoResults(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime": testutil.Status(http.StatusInternalServerError),
	})
	pointConfigAt(t, server.URL)

	out := runCommand(t, "search", "nothing")
	if strings.TrimSpace(out) != "No results found." {
		t.Errorf("output = %q", out)
	}
}

func TestGenresCommand(t *testing.T) {
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/genres/anime": testutil.JSON(testutil.DataEnvelope(testutil.GenerateGenresJSON("Action", "Comedy"))),
	})
	pointConfigAt(t, server.URL)

	out := runCommand(t, "genres")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Comedy") || !strings.Contains(lines[1], "200") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestSearchCommand_RequiresQuery(t *testing.T) {
	rootCmd.SetArgs([]string{"search"})
	rootCmd.SetOut(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error without a query")
	}
}
