package web

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/animeverse/animeverse/internal/prefs"
	"github.com/animeverse/animeverse/internal/render"
)

// writeHTML renders into a buffer and writes it with status. A template
// error is logged and answered with 500.
func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) prefsFor(r *http.Request) *prefs.Store {
	return prefs.New(s.store, VisitorFromContext(r.Context()))
}

func (s *Server) layout(r *http.Request, p *prefs.Store, title string) render.Layout {
	return render.Layout{
		Title:  title,
		Theme:  p.Theme(r.Context()),
		Recent: p.RecentSearches(r.Context()),
	}
}

// intParam parses a positive integer route parameter.
func intParam(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// pageQuery reads ?page=, defaulting to 1.
func pageQuery(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// localReferer returns the path of a same-site Referer, or fallback.
func localReferer(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.Host != "" && ref.Host != r.Host {
		return fallback
	}
	return ref.RequestURI()
}

// FragmentHeader marks requests issued by the page script that expect an
// HTML fragment instead of a full page.
const FragmentHeader = "X-Requested-With"

func isFragmentRequest(r *http.Request) bool {
	return r.Header.Get(FragmentHeader) == "fetch"
}
