package module

import (
	"context"

	"notary/internal/adapters/ledger"
	"notary/internal/core/proof"

	dom "notary/internal/services/verification/domain"
)

// Ports holds the ports exposed by the verification module
type Ports struct {
	Verification dom.ServicePort
}

// ledgerPort adapts the ledger client to the verification port
type ledgerPort struct{ c *ledger.Client }

func (l ledgerPort) SubmitVerification(ctx context.Context, bundles []proof.Bundle, requestID string) (dom.Report, error) {
	items := make([]ledger.ProofItem, 0, len(bundles))
	for _, b := range bundles {
		items = append(items, ledger.ProofItem{Proof: b.Proof, Root: b.Root, Address: b.Address, Data: b.Data})
	}
	raw, err := l.c.SubmitVerification(ctx, items, requestID)
	if err != nil {
		return dom.Report{}, err
	}
	return dom.Report{Raw: raw}, nil
}
