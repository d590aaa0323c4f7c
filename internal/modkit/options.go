package modkit

import (
	"net/http"

	"notary/internal/modkit/httpkit"
)

// Option sets one field of Built
type Option func(*Built)

// WithName names the module in logs and the port registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects the ports a module consumes; the type belongs to that module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSubrouter wraps the module router, e.g. httpkit.Secured
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister adds routes after the module's own
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Built) { b.Register = fn } }
