// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyCallerID ctxKey = "caller_id"

// WithRequest annotates context with the request id and the authenticated caller
func WithRequest(ctx context.Context, reqID, callerID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if callerID != "" {
		ctx = context.WithValue(ctx, keyCallerID, callerID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// CallerID returns the authenticated caller on the context if present
func CallerID(ctx context.Context) string {
	if v, ok := ctx.Value(keyCallerID).(string); ok {
		return v
	}
	return ""
}
