// Package config reads settings from environment variables
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"notary/internal/platform/logger"
)

// Conf is a prefixed view over the environment; New().Prefix("LEDGER_")
// reads LEDGER_* keys
type Conf struct{ prefix string }

// New creates a root Conf
func New() Conf { return Conf{} }

// Prefix returns a child view with p appended to the prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value of key and whether it is set
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(key)))
	return v, v != ""
}

// mayParse falls back to def when key is unset or does not parse
func mayParse[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// Require panics unless every key is set
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if _, ok := c.lookup(k); !ok {
			logger.Get().Panic().Str("key", c.key(k)).Msg("missing required env")
		}
	}
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns the value or def; invalid values log and fall back
func (c Conf) MayInt(key string, def int) int {
	return mayParse(c, key, def, "int", strconv.Atoi)
}

// MayBool returns the value or def; invalid values log and fall back
func (c Conf) MayBool(key string, def bool) bool {
	return mayParse(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the value or def; invalid values log and fall back
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return mayParse(c, key, def, "duration", time.ParseDuration)
}

// MayURL returns an absolute http(s) or ws(s) URL or def
func (c Conf) MayURL(key, def string) string {
	return mayParse(c, key, def, "absolute url", func(s string) (string, error) {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		if !u.IsAbs() || u.Host == "" {
			return "", strconv.ErrSyntax
		}
		return strings.TrimRight(s, "/"), nil
	})
}

// MayCSV splits a comma separated value, dropping blanks
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayPairs reads a CSV of name=value entries such as
// "provider=ws://host/api/v1/agent/ws"; malformed entries are logged and skipped
func (c Conf) MayPairs(key string) map[string]string {
	entries := c.MayCSV(key, nil)
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		name, val, ok := strings.Cut(e, "=")
		name, val = strings.TrimSpace(name), strings.TrimSpace(val)
		if !ok || name == "" || val == "" {
			logger.Get().Warn().Str("key", c.key(key)).Msg("skipping malformed name=value entry")
			continue
		}
		out[name] = val
	}
	return out
}

// MayEnum returns the value when it is one of allowed, def when unset, and
// panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
