// Package service executes RPC commands from other agents and routes their replies
package service

import (
	"context"

	"notary/internal/core/protocol"
	"notary/internal/platform/logger"
	"notary/internal/platform/net/http/bind"

	dom "notary/internal/services/agent/domain"
	stampdom "notary/internal/services/stamping/domain"
	verdom "notary/internal/services/verification/domain"
)

// Provider answers stamp, status and verify commands using the local workflows
type Provider struct {
	stamping stampdom.ServicePort
	verify   verdom.ServicePort
	log      logger.Logger
}

var _ dom.ProviderPort = (*Provider)(nil)

// NewProvider constructs the provider
func NewProvider(s stampdom.ServicePort, v verdom.ServicePort) *Provider {
	return &Provider{stamping: s, verify: v, log: *logger.Named("rpc-provider")}
}

// ledgerRequestID namespaces ledger calls made on behalf of a remote agent
func ledgerRequestID(id string) string { return "rpc-" + id }

// HandleStamp submits the hash once and returns its stamping handle
func (p *Provider) HandleStamp(ctx context.Context, req protocol.StampHashRequest) protocol.StampHashResponse {
	resp := protocol.StampHashResponse{Response: protocol.Response{RequestID: req.RequestID}}
	if err := bind.Check(req); err != nil {
		resp.Fail(protocol.CodeBadRequest, "Invalid hash")
		return resp
	}

	uid, err := p.stamping.Submit(ctx, req.Hash, ledgerRequestID(req.RequestID))
	if err != nil {
		p.log.Warn().Err(err).Str("request_id", req.RequestID).Msg("rpc stamp failed")
		resp.Error = protocol.ErrorFrom(err)
		return resp
	}
	if uid == "" {
		resp.Fail(protocol.CodeInternal, "Stamping failed")
		return resp
	}
	resp.OK = true
	resp.UID = uid
	return resp
}

// HandleUid waits for the handle to reach the chain; exhaustion is a
// successful answer with onchain=false
func (p *Provider) HandleUid(ctx context.Context, req protocol.UidRequest) protocol.UidResponse {
	resp := protocol.UidResponse{Response: protocol.Response{RequestID: req.RequestID}}
	if err := bind.Check(req); err != nil {
		resp.Fail(protocol.CodeBadRequest, "Invalid uid")
		return resp
	}

	conf := p.stamping.WaitForOnchain(ctx, req.UID, nil)
	if err := ctx.Err(); err != nil && !conf.Onchain {
		resp.Fail(protocol.CodeTimeout, "Status check abandoned")
		return resp
	}
	resp.OK = true
	resp.Onchain = conf.Onchain
	if conf.Onchain {
		resp.Proof = conf.Proof.Proof
		resp.Root = conf.Proof.Root
		resp.Address = conf.Proof.Address
		resp.Data = conf.Proof.Data
	}
	return resp
}

// HandleVerify checks the four fields before any upstream call, then returns
// the raw verification report
func (p *Provider) HandleVerify(ctx context.Context, req protocol.VerifyProofRequest) protocol.VerifyProofResponse {
	resp := protocol.VerifyProofResponse{Response: protocol.Response{RequestID: req.RequestID}}
	if err := bind.Get().Struct(req); err != nil {
		field, _ := bind.FieldAndMessage(err)
		resp.Fail(protocol.CodeBadRequest, "Missing '"+field+"'")
		return resp
	}

	rep, err := p.verify.Verify(ctx, req.Bundle(), ledgerRequestID(req.RequestID))
	if err != nil {
		p.log.Warn().Err(err).Str("request_id", req.RequestID).Msg("rpc verify failed")
		resp.Error = protocol.ErrorFrom(err)
		return resp
	}
	resp.OK = true
	resp.Report = rep.Raw
	return resp
}
