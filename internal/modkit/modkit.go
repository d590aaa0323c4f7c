// Package modkit builds API modules from shared deps and functional options
package modkit

import (
	"net/http"

	"notary/internal/modkit/httpkit"
	"notary/internal/platform/config"
	pstrings "notary/internal/platform/strings"
)

// Deps are handed to every module constructor. Modules read their own keys
// from Cfg and fall back to defaults, so the zero value is usable in tests
type Deps struct {
	Cfg config.Conf
}

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Subrouter wraps the module router before routes are registered
	Subrouter func(httpkit.Router) httpkit.Router
	// Register attaches extra routes after the module's own
	Register func(httpkit.Router)
}

// Build applies opts in order
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// Mount opens the module prefix, applies middleware and the subrouter, then
// registers own followed by any routes passed through WithRegister. An empty
// prefix panics
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	r.Route(pstrings.MustPrefix(b.Prefix), func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if b.Subrouter != nil {
			rr = b.Subrouter(rr)
		}
		if own != nil {
			own(rr)
		}
		if b.Register != nil {
			b.Register(rr)
		}
	})
}
