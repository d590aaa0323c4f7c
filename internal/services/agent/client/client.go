// Package client issues the stamp, status and verify RPCs to a remote agent
// and decodes their replies into typed responses
package client

import (
	"context"
	"time"

	"notary/internal/core/correlate"
	"notary/internal/core/proof"
	"notary/internal/core/protocol"
)

// Client wraps a correlator with typed calls; a non-nil error always
// accompanies a response whose OK is false
type Client struct {
	calls   *correlate.Correlator
	timeout time.Duration
}

// New returns a client; a non-positive timeout uses the correlator default
func New(calls *correlate.Correlator, timeout time.Duration) *Client {
	return &Client{calls: calls, timeout: timeout}
}

// StampHash asks target to stamp hash and returns the stamping handle
func (c *Client) StampHash(ctx context.Context, target, hash string) (protocol.StampHashResponse, error) {
	var resp protocol.StampHashResponse
	err := c.call(ctx, target, protocol.KindStampHash, &protocol.StampHashRequest{Hash: hash}, &resp, &resp.Response)
	return resp, err
}

// Status asks target whether uid is on chain; the remote side polls, so the
// timeout should cover its whole attempt budget
func (c *Client) Status(ctx context.Context, target, uid string) (protocol.UidResponse, error) {
	var resp protocol.UidResponse
	err := c.call(ctx, target, protocol.KindUid, &protocol.UidRequest{UID: uid}, &resp, &resp.Response)
	return resp, err
}

// Verify asks target to verify b and returns the raw report
func (c *Client) Verify(ctx context.Context, target string, b proof.Bundle) (protocol.VerifyProofResponse, error) {
	var resp protocol.VerifyProofResponse
	req := &protocol.VerifyProofRequest{Proof: b.Proof, Root: b.Root, Address: b.Address, Data: b.Data}
	err := c.call(ctx, target, protocol.KindVerifyProof, req, &resp, &resp.Response)
	return resp, err
}

// StampAndWait issues StampHash, then Status for the returned handle
func (c *Client) StampAndWait(ctx context.Context, target, hash string) (protocol.StampHashResponse, protocol.UidResponse, error) {
	stamped, err := c.StampHash(ctx, target, hash)
	if err != nil {
		return stamped, protocol.UidResponse{}, err
	}
	status, err := c.Status(ctx, target, stamped.UID)
	return stamped, status, err
}

func (c *Client) call(ctx context.Context, target string, kind protocol.Kind, cmd protocol.Command, out any, base *protocol.Response) error {
	reply := c.calls.Call(ctx, target, kind, cmd, c.timeout)
	if err := reply.Decode(out); err != nil {
		base.RequestID = reply.RequestID
		base.Fail(protocol.CodeInternal, err.Error())
		return base.Err()
	}
	return base.Err()
}
