package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// FloatPtr is a helper for creating *float64 values in tests
func FloatPtr(v float64) *float64 {
	return &v
}

// AnimeOptions contains options for generating a Jikan anime object
type AnimeOptions struct {
	ID       int
	Title    string
	ImageURL string // empty omits the images object entirely
	Type     string
	Score    *float64
	Episodes *int
	Year     *int
	Synopsis string
	Genres   []string // genre names; ids are assigned 1..n
}

// GenerateAnimeJSON renders one anime object the way Jikan v4 does,
// emitting null for absent optional fields.
func GenerateAnimeJSON(opts AnimeOptions) string {
	if opts.ID == 0 {
		opts.ID = 1
	}

	obj := map[string]any{
		"mal_id":   opts.ID,
		"url":      fmt.Sprintf("https://myanimelist.net/anime/%d", opts.ID),
		"title":    opts.Title,
		"type":     opts.Type,
		"score":    opts.Score,
		"episodes": opts.Episodes,
		"year":     opts.Year,
	}
	if opts.Synopsis != "" {
		obj["synopsis"] = opts.Synopsis
	} else {
		obj["synopsis"] = nil
	}
	if opts.ImageURL != "" {
		obj["images"] = map[string]any{
			"jpg": map[string]string{
				"image_url":       opts.ImageURL,
				"large_image_url": opts.ImageURL,
			},
		}
	}

	genres := make([]map[string]any, 0, len(opts.Genres))
	for i, name := range opts.Genres {
		genres = append(genres, map[string]any{"mal_id": i + 1, "name": name})
	}
	obj["genres"] = genres

	b, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// GenerateAnimeListJSON renders a JSON array of anime objects
func GenerateAnimeListJSON(rows []AnimeOptions) string {
	items := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, GenerateAnimeJSON(row))
	}
	return "[" + strings.Join(items, ",") + "]"
}

// DataEnvelope wraps raw JSON in the {"data": ...} envelope Jikan responds with
func DataEnvelope(raw string) string {
	return `{"data":` + raw + `}`
}

// GenerateGenresJSON renders a genre taxonomy with ids 1..n
func GenerateGenresJSON(names ...string) string {
	items := make([]string, 0, len(names))
	for i, name := range names {
		b, _ := json.Marshal(name)
		items = append(items, fmt.Sprintf(`{"mal_id":%d,"name":%s,"count":%d}`, i+1, b, (i+1)*100))
	}
	return "[" + strings.Join(items, ",") + "]"
}
