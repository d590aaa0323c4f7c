package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"notary/internal/platform/config"
	phttp "notary/internal/platform/net/http"
	"notary/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Origins []string
	Slow    time.Duration
	Timeout time.Duration

	// Untimed path prefixes skip Timeout; long polls carry their own budget
	Untimed []string
}

// StackFromConfig reads CORS_ORIGINS, SLOW_REQUEST and REQUEST_TIMEOUT
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		Origins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Slow:    cfg.MayDuration("SLOW_REQUEST", 2*time.Second),
		Timeout: cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
	}
}

// CommonStack is the middleware every API route runs behind, outermost first
func CommonStack(opt StackOptions) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: opt.Slow}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
	}
	if opt.Timeout > 0 {
		stack = append(stack, middleware.Timeout(opt.Timeout, opt.Untimed...))
	}
	return stack
}

// Auth renders rejected requests with the JSON envelope writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
