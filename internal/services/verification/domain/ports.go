// Package domain holds the verification workflow types and ports
package domain

import (
	"context"
	"errors"

	"notary/internal/core/proof"
)

// LedgerPort is the subset of the ledger service verification needs
type LedgerPort interface {
	SubmitVerification(ctx context.Context, bundles []proof.Bundle, requestID string) (Report, error)
}

// ErrNotProofFile marks an attachment that is not a proof file at all
var ErrNotProofFile = errors.New("not a proof file")

// ServicePort is implemented by the verification service
type ServicePort interface {
	Verify(ctx context.Context, b proof.Bundle, requestID string) (Report, error)
	VerifyFile(ctx context.Context, a proof.Attachment, requestID string) (Report, error)
}
