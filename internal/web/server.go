// Package web binds the interaction controllers and render templates to HTTP
// routes.
package web

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/animeverse/animeverse/internal/client"
	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/controller"
	"github.com/animeverse/animeverse/internal/render"
	"github.com/animeverse/animeverse/internal/storage"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Client   client.Client
	Store    storage.Store
	Renderer *render.Renderer
	Carousel *controller.Carousel
	Search   *controller.Search

	// AllowedOrigins may call the suggestion endpoint cross-origin. Empty allows any.
	AllowedOrigins []string
	// SecureCookies marks the visitor cookie Secure.
	SecureCookies bool
}

// Server serves the front-end.
type Server struct {
	client   client.Client
	store    storage.Store
	renderer *render.Renderer
	carousel *controller.Carousel
	search   *controller.Search
	logger   zerolog.Logger
}

// NewServer validates deps and creates a Server.
func NewServer(deps Deps) (*Server, error) {
	if deps.Client == nil || deps.Store == nil || deps.Renderer == nil || deps.Carousel == nil || deps.Search == nil {
		return nil, fmt.Errorf("web: incomplete dependencies")
	}
	return &Server{
		client:   deps.Client,
		store:    deps.Store,
		renderer: deps.Renderer,
		carousel: deps.Carousel,
		search:   deps.Search,
		logger:   config.GetLogger().With().Str("component", "web").Logger(),
	}, nil
}

// NewRouter builds the chi router with middleware and every route.
func NewRouter(deps Deps) (chi.Router, error) {
	s, err := NewServer(deps)
	if err != nil {
		return nil, err
	}

	static, err := render.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("web: static assets: %w", err)
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", staticHandler(static))

	r.Group(func(r chi.Router) {
		r.Use(visitorMiddleware(deps.SecureCookies))

		r.Get("/", s.handleHome)
		r.Get("/carousel", s.handleCarousel)
		r.Get("/carousel/{index}", s.handleCarousel)

		r.Get("/anime/{id}", s.handleAnime)
		r.Post("/anime/{id}/favorite", s.handleToggleFavorite)
		r.Get("/favorites", s.handleFavorites)
		r.Post("/favorites/{id}/remove", s.handleRemoveFavorite)

		r.Get("/search", s.handleSearchPage)
		r.Post("/search", s.handleSearchSubmit)
		r.With(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		})).Get("/search/suggest", s.handleSuggest)
		r.Post("/search/voice", s.handleVoice)

		r.Get("/genres", s.handleGenres)
		r.Get("/genres/{id}", s.handleGenre)
		r.Get("/top/{filter}", s.handleTop)

		r.Post("/theme", s.handleTheme)
	})

	return r, nil
}

func staticHandler(static fs.FS) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// NewHTTPServer wraps handler in an http.Server with the front-end timeouts.
func NewHTTPServer(address string, port int, handler http.Handler) *http.Server {
	if port == 0 {
		port = 8080
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
