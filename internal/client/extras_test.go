package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/animeverse/animeverse/internal/testutil"
)

func TestClient_Characters(t *testing.T) {
	body := testutil.DataEnvelope(`[
		{"character": {"mal_id": 17, "name": "Uzumaki, Naruto", "images": {"jpg": {"image_url": "https://cdn/17.jpg"}}},
		 "role": "Main", "favorites": 70000,
		 "voice_actors": [{"person": {"mal_id": 3, "name": "Takeuchi, Junko"}, "language": "Japanese"}]}
	]`)
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/20/characters": testutil.JSON(body),
	})

	list := newTestClient(server.URL).Characters(context.Background(), 20)

	if len(list) != 1 {
		t.Fatalf("expected 1 character, got %d", len(list))
	}
	if list[0].Character.Name != "Uzumaki, Naruto" || list[0].Role != "Main" {
		t.Errorf("unexpected character: %+v", list[0])
	}
	if len(list[0].VoiceActors) != 1 || list[0].VoiceActors[0].Language != "Japanese" {
		t.Errorf("unexpected voice actors: %+v", list[0].VoiceActors)
	}
}

func TestClient_Staff(t *testing.T) {
	body := testutil.DataEnvelope(`[{"person": {"mal_id": 1, "name": "Date, Hayato"}, "positions": ["Director"]}]`)
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/20/staff": testutil.JSON(body),
	})

	list := newTestClient(server.URL).Staff(context.Background(), 20)

	if len(list) != 1 || list[0].Positions[0] != "Director" {
		t.Errorf("unexpected staff: %+v", list)
	}
}

func TestClient_Recommendations(t *testing.T) {
	body := testutil.DataEnvelope(`[{"entry": {"mal_id": 269, "title": "Bleach"}, "votes": 42}]`)
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/20/recommendations": testutil.JSON(body),
	})

	list := newTestClient(server.URL).Recommendations(context.Background(), 20)

	if len(list) != 1 || list[0].Entry.DisplayName() != "Bleach" || list[0].Votes != 42 {
		t.Errorf("unexpected recommendations: %+v", list)
	}
}

func TestClient_Themes(t *testing.T) {
	body := testutil.DataEnvelope(`{"openings": ["1: \"R★O★C★K★S\" by Hound Dog"], "endings": null}`)
	server := testutil.NewJikanServer(t, map[string]http.HandlerFunc{
		"/anime/20/themes": testutil.JSON(body),
	})

	themes := newTestClient(server.URL).Themes(context.Background(), 20)

	if len(themes.Openings) != 1 {
		t.Errorf("expected 1 opening, got %v", themes.Openings)
	}
	if themes.Endings == nil || len(themes.Endings) != 0 {
		t.Errorf("expected empty non-nil endings, got %v", themes.Endings)
	}
}

func TestClient_SubResourceDefaultsOnFailure(t *testing.T) {
	server := testutil.NewJikanServer(t, nil)
	c := newTestClient(server.URL)
	ctx := context.Background()

	if got := c.Characters(ctx, 1); got == nil || len(got) != 0 {
		t.Errorf("Characters = %v, want empty list", got)
	}
	if got := c.Staff(ctx, 1); got == nil || len(got) != 0 {
		t.Errorf("Staff = %v, want empty list", got)
	}
	if got := c.Recommendations(ctx, 1); got == nil || len(got) != 0 {
		t.Errorf("Recommendations = %v, want empty list", got)
	}
	themes := c.Themes(ctx, 1)
	if themes.Openings == nil || themes.Endings == nil || len(themes.Openings)+len(themes.Endings) != 0 {
		t.Errorf("Themes = %+v, want two empty lists", themes)
	}
}
