package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// JikanServer is a fake catalog API that records how often each path was hit
type JikanServer struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// NewJikanServer starts a fake catalog API. Routes are matched on the URL path;
// unknown paths answer 404. The server is closed when the test ends.
func NewJikanServer(t testing.TB, routes map[string]http.HandlerFunc) *JikanServer {
	t.Helper()

	js := &JikanServer{hits: make(map[string]int)}
	js.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		js.mu.Lock()
		js.hits[r.URL.Path]++
		js.mu.Unlock()

		if h, ok := routes[r.URL.Path]; ok {
			h(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(js.Close)
	return js
}

// Hits returns how many requests reached path
func (js *JikanServer) Hits(path string) int {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.hits[path]
}

// TotalHits returns the number of requests across all paths
func (js *JikanServer) TotalHits() int {
	js.mu.Lock()
	defer js.mu.Unlock()
	total := 0
	for _, n := range js.hits {
		total += n
	}
	return total
}

// JSON answers with a 200 and the given body
func JSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

// Status answers with an empty body and the given status code
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}
