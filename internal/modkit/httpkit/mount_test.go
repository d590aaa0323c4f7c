package httpkit

import (
	"net/http"
	"testing"
)

func TestMountAPI(t *testing.T) {
	noop := func(next http.Handler) http.Handler { return next }
	tests := []struct {
		version string
		mw      []func(http.Handler) http.Handler
		prefix  string
		uses    int
	}{
		{"v1", []func(http.Handler) http.Handler{noop, noop}, "/api/v1", 1},
		{"/v2/", nil, "/api/v2", 0},
	}
	for _, tt := range tests {
		r := &fakeRouter{}
		mounted := 0
		MountAPI(r, tt.version, tt.mw, func(api Router) {
			mounted++
			Get(api, "/meta/health", func(*http.Request) (any, error) { return nil, nil })
		})
		if len(r.prefixes) != 1 || r.prefixes[0] != tt.prefix {
			t.Fatalf("%s: prefixes %v", tt.version, r.prefixes)
		}
		if len(r.mwCount) != tt.uses || (tt.uses == 1 && r.mwCount[0] != len(tt.mw)) {
			t.Fatalf("%s: use calls %v", tt.version, r.mwCount)
		}
		if mounted != 1 || len(r.routes) != 1 || r.routes[0] != "GET /meta/health" {
			t.Fatalf("%s: mounted=%d routes=%v", tt.version, mounted, r.routes)
		}
	}
}
