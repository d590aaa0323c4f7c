package middleware_test

import (
	"compress/flate"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pnet "notary/internal/platform/net"
	"notary/internal/platform/net/middleware"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestRequestID_ReachesContext(t *testing.T) {
	var seen string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = pnet.RequestID(r.Context())
	}), middleware.RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "stamp-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "stamp-42" {
		t.Fatalf("request id %q", seen)
	}
}

func TestTimeout_BoundsContext(t *testing.T) {
	var deadline bool
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}), middleware.Timeout(time.Second))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !deadline {
		t.Fatal("expected a deadline on the request context")
	}
}

func TestTimeout_ExemptPrefixKeepsCallerContext(t *testing.T) {
	seen := map[string]bool{}
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen[r.URL.Path] = r.Context().Deadline()
	}), middleware.Timeout(time.Second, "/api/v1/agent/integritas/"))

	for _, p := range []string{"/api/v1/agent/integritas/status", "/api/v1/agent/peers"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, p, nil))
	}
	if seen["/api/v1/agent/integritas/status"] {
		t.Fatal("exempt path got a deadline")
	}
	if !seen["/api/v1/agent/peers"] {
		t.Fatal("other paths should stay bounded")
	}
}

func TestCompress_GzipWhenAccepted(t *testing.T) {
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.Repeat(`{"ok":true}`, 512))
	}), middleware.Compress(flate.BestSpeed))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("content encoding %q", rr.Header().Get("Content-Encoding"))
	}
}

func TestHeartbeatAndNoCache(t *testing.T) {
	h := chain(http.NotFoundHandler(), middleware.NoCache(), middleware.Heartbeat("/health"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("heartbeat status %d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatal("expected Cache-Control from NoCache")
	}
}

func TestStripSlashes(t *testing.T) {
	var path string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	}), middleware.StripSlashes())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/meta/health/", nil))
	if path != "/api/v1/meta/health" {
		t.Fatalf("path %q", path)
	}
}

func TestCORS_DefaultsAllowAuthorization(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://ops.example"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat/messages", nil)
	req.Header.Set("Origin", "https://ops.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK && rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost) {
		t.Fatalf("allow methods %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
	if rr.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatal("expected Access-Control-Allow-Headers")
	}
}
