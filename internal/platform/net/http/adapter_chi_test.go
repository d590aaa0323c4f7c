package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func tag(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Tags", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestAdaptChi_ScopesMiddleware(t *testing.T) {
	r := AdaptChi(chi.NewRouter())
	r.Use(tag("root"))

	r.Route("/api/v1", func(api Router) {
		api.Get("/meta/version", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		api.Group(func(g Router) {
			g.Use(tag("secured"))
			g.Post("/chat/messages", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
			g.Handle("/agent/ws", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusSwitchingProtocols)
			}))
		})
	})

	tests := []struct {
		method, path string
		status       int
		tags         []string
	}{
		{http.MethodGet, "/api/v1/meta/version", http.StatusOK, []string{"root"}},
		{http.MethodPost, "/api/v1/chat/messages", http.StatusAccepted, []string{"root", "secured"}},
		{http.MethodGet, "/api/v1/agent/ws", http.StatusSwitchingProtocols, []string{"root", "secured"}},
		{http.MethodGet, "/api/v1/chat/messages", http.StatusMethodNotAllowed, []string{"root"}},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.status {
			t.Fatalf("%s %s status %d want %d", tt.method, tt.path, rec.Code, tt.status)
		}
		got := rec.Header().Values("X-Tags")
		if len(got) != len(tt.tags) {
			t.Fatalf("%s %s tags %v want %v", tt.method, tt.path, got, tt.tags)
		}
		for i := range got {
			if got[i] != tt.tags[i] {
				t.Fatalf("%s %s tags %v want %v", tt.method, tt.path, got, tt.tags)
			}
		}
	}
}

func TestAdaptChi_SubrouterMux(t *testing.T) {
	r := AdaptChi(chi.NewRouter())
	r.Route("/debug", func(sub Router) {
		if sub.Mux() == nil {
			t.Fatal("subrouter mux is nil")
		}
	})
}
