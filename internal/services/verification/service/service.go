// Package service implements the verification workflow
package service

import (
	"context"

	"notary/internal/core/proof"
	perr "notary/internal/platform/errors"
	"notary/internal/platform/logger"

	dom "notary/internal/services/verification/domain"
)

// Svc validates proof bundles and submits them for checking
type Svc struct {
	ledger dom.LedgerPort
	log    logger.Logger
}

var _ dom.ServicePort = (*Svc)(nil)

// New constructs the workflow over a ledger port
func New(ledger dom.LedgerPort) *Svc {
	return &Svc{ledger: ledger, log: *logger.Named("verification")}
}

// Verify checks that all four fields are present, then submits the bundle as
// a one element sequence. Invalid bundles never reach the ledger
func (s *Svc) Verify(ctx context.Context, b proof.Bundle, requestID string) (dom.Report, error) {
	if err := b.Validate(); err != nil {
		return dom.Report{}, err
	}
	rep, err := s.ledger.SubmitVerification(ctx, []proof.Bundle{b}, requestID)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Msg("verification submit failed")
		return dom.Report{}, err
	}
	if rep.IsZero() {
		return dom.Report{}, perr.Upstreamf("empty verification report")
	}
	if o, ok := rep.Outcome(); ok {
		s.log.Info().Str("request_id", requestID).Str("result", o.Result).Msg("proof verified")
	}
	return rep, nil
}

// VerifyFile verifies the first bundle of an uploaded proof file. Anything
// that is not a proof file fails with dom.ErrNotProofFile
func (s *Svc) VerifyFile(ctx context.Context, a proof.Attachment, requestID string) (dom.Report, error) {
	if !proof.IsProofFile(a) {
		return dom.Report{}, perr.Wrapf(dom.ErrNotProofFile, perr.ErrorCodeInvalidArgument, "%s is not a proof file", a.Filename)
	}
	b, err := proof.ParseProofFile(a)
	if err != nil {
		return dom.Report{}, err
	}
	return s.Verify(ctx, b, requestID)
}
