package module

import (
	"time"

	"notary/internal/platform/config"
)

// Options controls the chat dispatcher and reply transport
type Options struct {
	Workers      int
	Queue        int
	ReplyURL     string
	ReplyTimeout time.Duration
}

// FromConfig reads CHAT_* values
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CHAT_")
	return Options{
		Workers:      c.MayInt("WORKERS", 8),
		Queue:        c.MayInt("QUEUE", 64),
		ReplyURL:     c.MayURL("REPLY_URL", ""),
		ReplyTimeout: c.MayDuration("REPLY_TIMEOUT", 10*time.Second),
	}
}
