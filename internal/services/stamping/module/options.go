package module

import (
	"time"

	"notary/internal/adapters/ledger"
	"notary/internal/platform/config"
)

// Options controls the stamping poll loop
type Options struct {
	MaxAttempts   int
	Delay         time.Duration
	ArtifactLinks *bool

	// Ledger is shared with the verification module when set; otherwise
	// a client is built from LEDGER_* config
	Ledger *ledger.Client
}

// FromConfig reads POLL_* values
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("POLL_")
	links := c.MayBool("ARTIFACT_LINKS", true)
	return Options{
		MaxAttempts:   c.MayInt("MAX_ATTEMPTS", 10),
		Delay:         c.MayDuration("DELAY", 10*time.Second),
		ArtifactLinks: &links,
	}
}
