// Package httpkit is what modules import to mount routes: handler adapters,
// the shared middleware stack and bearer token auth
package httpkit

import (
	"net/http"

	phttp "notary/internal/platform/net/http"
	"notary/internal/platform/net/http/bind"
)

type (
	// Envelope is the JSON body shape, referenced by swagger annotations
	Envelope = phttp.Envelope
	// Response is what return-style handlers produce
	Response = phttp.Response
	// Handler is the registered handler shape
	Handler = phttp.Handler
	// Router is the mount surface
	Router = phttp.Router
)

// OK is a 200 with data
func OK(data any) Response { return phttp.OK(data) }

// Accepted is a 202 for queued work
func Accepted(data any) Response { return phttp.Accepted(data) }

// NoContent is a bodiless 204
func NoContent() Response { return phttp.NoContent() }

// Error maps err onto its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a return-style handler
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// JSON binds and validates a T from the body before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// Call adapts a handler without a request body
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// result lets handlers return a Response to pick their own status
func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
