package httpkit

import (
	"net/http"
	"path"

	"notary/internal/modkit/swaggerkit"
	"notary/internal/platform/net/middleware"
)

// Secured returns a subrouter factory for a module mounted at base. Routes
// registered through it require p and are documented as bearer protected.
// A nil port leaves the router as it is
func Secured(base string, p middleware.AuthPort) func(Router) Router {
	return func(r Router) Router {
		if p == nil {
			return r
		}
		r.Use(Auth(p))
		return &securedRouter{Router: r, base: base}
	}
}

// securedRouter records every route it registers in the swagger security list
type securedRouter struct {
	Router
	base string
}

func joinPath(base, p string) string { return path.Join("/", base, p) }

func (s *securedRouter) mark(p, method string) {
	swaggerkit.MarkSecurePath(joinPath(s.base, p), method)
}

func (s *securedRouter) Get(p string, h Handler) {
	s.mark(p, http.MethodGet)
	s.Router.Get(p, h)
}

func (s *securedRouter) Post(p string, h Handler) {
	s.mark(p, http.MethodPost)
	s.Router.Post(p, h)
}

// Handle marks GET only; raw handlers here are websocket upgrades
func (s *securedRouter) Handle(p string, h http.Handler) {
	s.mark(p, http.MethodGet)
	s.Router.Handle(p, h)
}

func (s *securedRouter) Group(fn func(Router)) {
	s.Router.Group(func(g Router) { fn(&securedRouter{Router: g, base: s.base}) })
}

func (s *securedRouter) Route(prefix string, fn func(Router)) {
	s.Router.Route(prefix, func(sub Router) {
		fn(&securedRouter{Router: sub, base: joinPath(s.base, prefix)})
	})
}
