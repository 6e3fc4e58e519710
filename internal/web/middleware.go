package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/animeverse/animeverse/internal/metrics"
)

// VisitorCookie names the cookie that scopes preferences to a browser.
const VisitorCookie = "animeverse_visitor"

const visitorCookieMaxAge = 365 * 24 * 60 * 60

type ctxKeyVisitor struct{}

// VisitorFromContext returns the visitor id set by the visitor middleware.
func VisitorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyVisitor{}).(string)
	return v
}

// visitorMiddleware reads the visitor cookie and issues a fresh uuid when it
// is missing or malformed.
func visitorMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(VisitorCookie); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   visitorCookieMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), ctxKeyVisitor{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accessLog writes one zerolog line per request and observes its duration
// under the matched chi route pattern.
func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			metrics.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())

			ev := logger.Info()
			if status >= http.StatusInternalServerError {
				ev = logger.Error()
			}
			ev.Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Msg("HTTP request")
		})
	}
}
