// Package http is the agent's HTTP plumbing: the chi backed router, the server
// lifecycle and JSON responses wrapped in the shared envelope
package http

import (
	"encoding/json"
	"net/http"

	pnet "notary/internal/platform/net"
)

// Envelope is the body every JSON endpoint answers with
type Envelope = pnet.Envelope

// JSON writes v with status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers produce. A Body that is an error
// decides the status itself
type Response struct {
	Status int
	Body   any
	Header http.Header
}

// Handle adapts a return-style handler
func Handle(h func(*http.Request) Response) Handler {
	return func(w http.ResponseWriter, r *http.Request) { h(r).write(w, r) }
}

func (resp Response) write(w http.ResponseWriter, r *http.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	if err, ok := resp.Body.(error); ok && err != nil {
		status, env := pnet.Fail(err, reqID)
		JSON(w, status, env)
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	JSON(w, status, pnet.Reply(status, resp.Body, reqID))
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: http.StatusOK, Body: data} }

// Accepted is a 202 for work handed to a background worker
func Accepted(data any) Response { return Response{Status: http.StatusAccepted, Body: data} }

// NoContent is a bodiless 204
func NoContent() Response { return Response{Status: http.StatusNoContent} }

// Error maps err onto its status and envelope
func Error(err error) Response { return Response{Body: err} }
