package module

import (
	"time"

	"notary/internal/platform/config"
)

// Options controls the agent link and RPC deadlines
type Options struct {
	Name       string
	RPCTimeout time.Duration

	// Peers are dialed on Start, keyed by agent name
	Peers map[string]string

	// PeerToken is sent as a bearer token when dialing peers
	PeerToken string
}

// FromConfig reads AGENT_* and RPC_* values; AGENT_PEERS is a CSV of name=url
func FromConfig(cfg config.Conf) Options {
	return Options{
		Name:       cfg.Prefix("AGENT_").MayString("NAME", "notary"),
		RPCTimeout: cfg.Prefix("RPC_").MayDuration("TIMEOUT", 30*time.Second),
		Peers:      cfg.Prefix("AGENT_").MayPairs("PEERS"),
		PeerToken:  cfg.Prefix("AGENT_").MayString("PEER_TOKEN", ""),
	}
}
