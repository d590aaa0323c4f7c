package httpkit

import (
	"net/http"

	perrs "notary/internal/platform/errors"
)

// TokenFunc maps a raw bearer token to a caller id
type TokenFunc func(token string) (callerID string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the caller id from an Authorization Bearer token
// returns unauthorized when the header is missing, malformed, or the parser returns an error
func (p *Port) Parse(r *http.Request) (string, error) {
	raw, err := Bearer(r)
	if err != nil {
		return "", err
	}
	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	caller, err := p.parse(raw)
	if err != nil || caller == "" {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return caller, nil
}
