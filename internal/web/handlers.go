package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/animeverse/animeverse/internal/apperrors"
	"github.com/animeverse/animeverse/internal/controller"
	"github.com/animeverse/animeverse/internal/models"
	"github.com/animeverse/animeverse/internal/render"
)

const homeRowLimit = 15

// ensureCarousel retries a failed startup load when a request finds the
// carousel idle.
func (s *Server) ensureCarousel(r *http.Request) {
	if s.carousel.State() == controller.CarouselIdle {
		s.carousel.Load(r.Context())
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.prefsFor(r)
	s.ensureCarousel(r)

	snap := s.carousel.Snapshot(p.Visitor())
	trending := snap.Slides
	if len(trending) == 0 {
		trending = s.client.Trending(ctx, homeRowLimit)
	}

	view := render.HomeView{
		Layout:   s.layout(r, p, ""),
		Carousel: snap,
		Trending: trending,
		Airing:   s.client.TopAiring(ctx, homeRowLimit),
	}
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.HomePage(out, view)
	})
}

// handleCarousel serves the hero carousel to the page script. With an
// {index} it first moves the visitor to that slide, which restarts their
// autoplay. Plain navigations (no script) are sent back to the home page.
func (s *Server) handleCarousel(w http.ResponseWriter, r *http.Request) {
	s.ensureCarousel(r)
	visitor := VisitorFromContext(r.Context())

	if raw := chi.URLParam(r, "index"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid slide index", http.StatusBadRequest)
			return
		}
		s.carousel.GoTo(visitor, index)
	}

	if !isFragmentRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	snap := s.carousel.Snapshot(visitor)
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.Carousel(out, snap)
	})
}

func (s *Server) handleAnime(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	p := s.prefsFor(r)

	detail := render.DetailView{Anime: s.client.AnimeDetails(ctx, id)}
	status := http.StatusOK
	if detail.Anime.IsZero() {
		status = http.StatusNotFound
	} else {
		detail.Favorite = p.IsFavorite(ctx, id)
		var wg sync.WaitGroup
		wg.Go(func() { detail.Characters = s.client.Characters(ctx, id) })
		wg.Go(func() { detail.Staff = s.client.Staff(ctx, id) })
		wg.Go(func() { detail.Recommendations = s.client.Recommendations(ctx, id) })
		wg.Go(func() { detail.Themes = s.client.Themes(ctx, id) })
		wg.Wait()
	}

	view := render.AnimeView{
		Layout: s.layout(r, p, detail.Anime.Title),
		Detail: detail,
	}
	s.writeHTML(w, r, status, func(out io.Writer) error {
		return s.renderer.AnimePage(out, view)
	})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	favorite := s.prefsFor(r).ToggleFavorite(r.Context(), id)
	s.logger.Debug().Int("id", id).Bool("favorite", favorite).Msg("Favorite toggled")
	http.Redirect(w, r, fmt.Sprintf("/anime/%d", id), http.StatusSeeOther)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.prefsFor(r)

	records := lo.Map(p.Favorites(ctx), func(id int, _ int) models.Anime {
		return s.client.AnimeDetails(ctx, id)
	})
	view := render.FavoritesView{
		Layout:    s.layout(r, p, "Favorites"),
		Favorites: lo.Reject(records, func(a models.Anime, _ int) bool { return a.IsZero() }),
	}
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.FavoritesPage(out, view)
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.prefsFor(r).RemoveFavorite(r.Context(), id)
	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}

func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	p := s.prefsFor(r)
	query := r.URL.Query().Get("q")

	layout := s.layout(r, p, "Search")
	layout.Query = query
	view := render.SearchView{
		Layout:  layout,
		Results: s.client.Search(r.Context(), query),
	}
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.SearchPage(out, view)
	})
}

// handleSearchSubmit is the Enter path: record the query, then show results.
func (s *Server) handleSearchSubmit(w http.ResponseWriter, r *http.Request) {
	query, ok := s.search.Submit(r.Context(), s.prefsFor(r), r.FormValue("q"))
	if !ok {
		http.Redirect(w, r, localReferer(r, "/"), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/search?q="+url.QueryEscape(query), http.StatusSeeOther)
}

// handleSuggest answers the debounced autocomplete lookup. A superseded
// request gets 204 so the client keeps the panel as is.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error().Interface("panic", rec).Msg("Suggestion lookup panicked")
			s.writeHTML(w, r, http.StatusOK, s.renderer.SuggestionsError)
		}
	}()

	list, err := s.search.Suggest(r.Context(), VisitorFromContext(r.Context()), r.URL.Query().Get("q"))
	switch {
	case errors.Is(err, apperrors.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		// The client went away or the request timed out while waiting.
		w.WriteHeader(http.StatusNoContent)
		return
	case list == nil:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Suggestions(&buf, list); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render suggestions")
		s.writeHTML(w, r, http.StatusOK, s.renderer.SuggestionsError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleVoice runs a transcript produced by the browser through the search
// path. A missing transcript means the browser has no speech recognition.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	recognizer := controller.TranscriptRecognizer(r.FormValue("transcript"))

	_, list, err := s.search.Voice(r.Context(), recognizer)
	if err != nil {
		if !errors.Is(err, apperrors.ErrVoiceUnavailable) {
			s.logger.Warn().Err(err).Msg("Voice search failed")
		}
		s.writeHTML(w, r, http.StatusUnprocessableEntity, func(out io.Writer) error {
			return s.renderer.VoiceUnavailable(out, voiceUnavailableMessage)
		})
		return
	}

	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.Suggestions(out, list)
	})
}

const voiceUnavailableMessage = "Speech recognition not supported in this browser."

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	p := s.prefsFor(r)
	view := render.GenreView{
		Layout: s.layout(r, p, "Genres"),
		Genres: s.client.Genres(r.Context()),
	}
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.GenrePage(out, view)
	})
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	p := s.prefsFor(r)
	page := pageQuery(r)

	genres := s.client.Genres(ctx)
	genre, found := lo.Find(genres, func(g models.Genre) bool { return g.ID == id })
	if !found {
		genre = models.Genre{ID: id}
	}

	view := render.GenreView{
		Layout:  s.layout(r, p, lo.Ternary(genre.Name != "", genre.Name, "Genres")),
		Genres:  genres,
		Genre:   genre,
		Results: s.client.AnimeByGenre(ctx, id, page),
		Pager: render.PagerView{
			Base:       fmt.Sprintf("/genres/%d", id),
			Pagination: models.NewPagination(page),
		},
	}
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.GenrePage(out, view)
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	p := s.prefsFor(r)
	filter := models.ParseTopFilter(chi.URLParam(r, "filter"))
	page := pageQuery(r)

	view := render.TopView{
		Layout:  s.layout(r, p, "Top "+filter.Label()),
		Filter:  filter,
		Filters: models.TopFilters(),
		Results: s.client.TopAnime(r.Context(), filter, page),
		Pager: render.PagerView{
			Base:       "/top/" + filter.String(),
			Pagination: models.NewPagination(page),
		},
	}
	s.writeHTML(w, r, http.StatusOK, func(out io.Writer) error {
		return s.renderer.TopPage(out, view)
	})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	theme := s.prefsFor(r).ToggleTheme(r.Context())
	s.logger.Debug().Str("theme", theme).Msg("Theme toggled")
	http.Redirect(w, r, localReferer(r, "/"), http.StatusSeeOther)
}
