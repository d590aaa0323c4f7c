package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"notary/internal/platform/config"
	perrs "notary/internal/platform/errors"
	pnet "notary/internal/platform/net"
	"notary/internal/platform/net/middleware"
)

// Caller returns the authenticated caller id from the request context
func Caller(r *http.Request) (string, error) {
	id := pnet.CallerID(r.Context())
	if id == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return id, nil
}

// Bearer returns the raw bearer token from the Authorization header
func Bearer(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}

// Tokens authenticates callers by static bearer tokens
type Tokens struct {
	byCaller map[string]string
}

// NewTokens builds a token table keyed by caller id
func NewTokens(byCaller map[string]string) *Tokens {
	t := &Tokens{byCaller: make(map[string]string, len(byCaller))}
	for caller, tok := range byCaller {
		if caller != "" && tok != "" {
			t.byCaller[caller] = tok
		}
	}
	return t
}

// TokensFromConfig reads TOKENS (caller=token CSV) under cfg; no tokens means no auth
func TokensFromConfig(cfg config.Conf) middleware.AuthPort {
	t := NewTokens(cfg.MayPairs("TOKENS"))
	if t.Len() == 0 {
		return nil
	}
	return t
}

// Len is the number of configured callers
func (t *Tokens) Len() int { return len(t.byCaller) }

// Parse implements middleware.AuthPort
func (t *Tokens) Parse(r *http.Request) (string, error) {
	return NewPortFunc(t.lookup).Parse(r)
}

// lookup compares against every entry so timing does not reveal which caller matched
func (t *Tokens) lookup(raw string) (string, error) {
	match := ""
	for caller, tok := range t.byCaller {
		if subtle.ConstantTimeCompare([]byte(raw), []byte(tok)) == 1 {
			match = caller
		}
	}
	if match == "" {
		return "", perrs.Unauthorizedf("unknown bearer token")
	}
	return match, nil
}
