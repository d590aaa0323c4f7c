// Package classifier talks to the language model backends that turn chat
// text into label prefixed commands and explain verification reports
package classifier

import (
	"context"
	"strings"
	"time"

	perr "notary/internal/platform/errors"
)

// Backend names
const (
	BackendASI    = "asi"
	BackendGemini = "gemini"
)

// Client is implemented by every backend
type Client interface {
	// Classify returns the raw label prefixed reply for text
	Classify(ctx context.Context, text string) (string, error)
	// Explain returns a short natural language reading of a verification report
	Explain(ctx context.Context, report string) (string, error)
}

// Options selects and configures a backend
type Options struct {
	Backend string
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Prompts Prompts
}

// New builds the backend named by o.Backend
func New(ctx context.Context, o Options) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(o.Backend)) {
	case "", BackendASI:
		return NewASI(o), nil
	case BackendGemini:
		return NewGemini(ctx, o)
	default:
		return nil, perr.InvalidArgf("unknown classifier backend %q", o.Backend)
	}
}
