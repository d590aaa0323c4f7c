package middleware

import (
	"net/http"

	"notary/internal/platform/logger"
	pnet "notary/internal/platform/net"
)

// AuthPort resolves the caller behind a request
type AuthPort interface {
	// Parse returns the caller id or an error
	Parse(r *http.Request) (callerID string, err error)
}

// Auth rejects requests the port cannot resolve and tags the rest with the
// caller id for handlers and logs. A nil port lets every request through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			reqID := pnet.RequestID(r.Context())
			caller, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Fail(err, reqID)
				write(w, status, body)
				return
			}
			ctx := pnet.WithRequest(r.Context(), reqID, caller)
			ctx = logger.WithRequest(ctx, reqID, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
