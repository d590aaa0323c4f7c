// Package domain declares the agent-to-agent RPC surface
package domain

import (
	"context"

	"notary/internal/core/protocol"
)

// ProviderPort executes commands received from other agents
type ProviderPort interface {
	HandleStamp(ctx context.Context, req protocol.StampHashRequest) protocol.StampHashResponse
	HandleUid(ctx context.Context, req protocol.UidRequest) protocol.UidResponse
	HandleVerify(ctx context.Context, req protocol.VerifyProofRequest) protocol.VerifyProofResponse
}

// Link is the transport the inbox answers on
type Link interface {
	Send(ctx context.Context, target string, m protocol.Message) error
}

// Peer describes a connected agent
type Peer struct {
	Name string `json:"name" example:"client-a"`
}

// PeersResponse lists connected agents
type PeersResponse struct {
	Self  string `json:"self"  example:"notary"`
	Peers []Peer `json:"peers"`
}
