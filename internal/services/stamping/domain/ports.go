// Package domain holds the stamping workflow types and the ports it depends on
package domain

import "context"

// LedgerPort is the subset of the ledger service stamping needs
type LedgerPort interface {
	SubmitHash(ctx context.Context, hash, requestID string) (uid string, err error)
	PollStatus(ctx context.Context, uids []string) (StatusReport, error)
	RequestArtifactLink(ctx context.Context, uids []string, requestID string) (ArtifactLink, error)
}

// ServicePort is implemented by the stamping service
type ServicePort interface {
	StampAndConfirm(ctx context.Context, hash, callerID string, progress chan<- Progress) StampResult
	Submit(ctx context.Context, hash, requestID string) (string, error)
	WaitForOnchain(ctx context.Context, uid string, progress chan<- Progress) Confirmation
}
