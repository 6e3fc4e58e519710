// Package render turns catalog records into HTML pages and fragments.
//
// Rendering is pure: no network and no storage access. Every interpolated
// string goes through html/template contextual escaping, so markup inside
// API-sourced titles or synopses is always shown as text.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/animeverse/animeverse/internal/models"
)

//go:embed templates/*.tmpl templates/pages/*.tmpl
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StaticFS returns the embedded assets served under /static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

var pageNames = []string{"home", "search", "genre", "anime", "favorites", "top"}

// Renderer executes the embedded templates.
type Renderer struct {
	fragments *template.Template
	pages     map[string]*template.Template
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"truncate":   func(n int, s string) string { return Truncate(s, n) },
		"genreLabel": GenreLabel,
		"genreList":  genreList,
		"image":      ImageOr,
		"score":      Score,
		"intOr":      func(def string, v *int) string { return IntOr(v, def) },
		"textOr":     textOr,
		"noResults":  func() string { return NoResults },
		"compactLen": func() int { return CompactSynopsisLen },
		"heroLen":    func() int { return HeroSynopsisLen },
	}
}

// New parses the embedded templates. Each page gets its own clone of the
// layout so that their "content" blocks do not collide.
func New() (*Renderer, error) {
	base, err := template.New("_root").Funcs(funcMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		page, err := clone.ParseFS(templateFS, "templates/pages/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{fragments: base, pages: pages}, nil
}

// execute renders into a buffer first so a failing template never leaves a
// half-written response behind.
func execute(w io.Writer, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) page(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return execute(w, t, "layout", data)
}

// Grid renders poster cards, or the "No results found." notice for an empty list.
func (r *Renderer) Grid(w io.Writer, items []models.Anime) error {
	return execute(w, r.fragments, "grid", items)
}

// Carousel renders the slides with the active one marked.
func (r *Renderer) Carousel(w io.Writer, view CarouselView) error {
	return execute(w, r.fragments, "carousel", view)
}

// Suggestions renders the autocomplete panel in API relevance order.
func (r *Renderer) Suggestions(w io.Writer, list []models.Suggestion) error {
	return execute(w, r.fragments, "suggestions", list)
}

// SuggestionsError renders the inline notice of a failed suggestion lookup.
func (r *Renderer) SuggestionsError(w io.Writer) error {
	return execute(w, r.fragments, "suggestions-error", SuggestionsErrorText)
}

// Detail renders the detail panel of a record.
func (r *Renderer) Detail(w io.Writer, view DetailView) error {
	return execute(w, r.fragments, "detail", view)
}

// Pagination renders prev/next controls. Prev is disabled on the first page.
func (r *Renderer) Pagination(w io.Writer, view PagerView) error {
	return execute(w, r.fragments, "pagination", view)
}

// VoiceUnavailable renders the blocking notice shown when speech input is missing.
func (r *Renderer) VoiceUnavailable(w io.Writer, message string) error {
	return execute(w, r.fragments, "voice-unavailable", message)
}

// HomePage renders the landing page: hero carousel, trending and top airing rows.
func (r *Renderer) HomePage(w io.Writer, view HomeView) error {
	return r.page(w, "home", view)
}

// SearchPage renders the results of a submitted query.
func (r *Renderer) SearchPage(w io.Writer, view SearchView) error {
	return r.page(w, "search", view)
}

// GenrePage renders the genre index, plus one page of records when a genre is selected.
func (r *Renderer) GenrePage(w io.Writer, view GenreView) error {
	return r.page(w, "genre", view)
}

// AnimePage renders a record's detail page, or "No results found." for a zero record.
func (r *Renderer) AnimePage(w io.Writer, view AnimeView) error {
	return r.page(w, "anime", view)
}

// FavoritesPage renders the visitor's favorites with their remove buttons.
func (r *Renderer) FavoritesPage(w io.Writer, view FavoritesView) error {
	return r.page(w, "favorites", view)
}

// TopPage renders one page of a top ranking with the filter tabs.
func (r *Renderer) TopPage(w io.Writer, view TopView) error {
	return r.page(w, "top", view)
}
