package module

import (
	"context"

	"notary/internal/adapters/ledger"
	"notary/internal/core/proof"

	dom "notary/internal/services/stamping/domain"
)

// Ports holds the ports exposed by the stamping module
type Ports struct {
	Stamping dom.ServicePort
}

// ledgerPort adapts the ledger client to the stamping port
type ledgerPort struct{ c *ledger.Client }

func (l ledgerPort) SubmitHash(ctx context.Context, hash, requestID string) (string, error) {
	return l.c.SubmitHash(ctx, hash, requestID)
}

func (l ledgerPort) PollStatus(ctx context.Context, uids []string) (dom.StatusReport, error) {
	st, err := l.c.PollStatus(ctx, uids)
	if err != nil {
		return dom.StatusReport{}, err
	}
	out := dom.StatusReport{Status: st.Status, Records: make([]dom.StatusRecord, 0, len(st.Records))}
	for _, r := range st.Records {
		out.Records = append(out.Records, dom.StatusRecord{
			Onchain: r.Onchain,
			Bundle:  proof.Bundle{Proof: r.Proof, Root: r.Root, Address: r.Address, Data: r.Data},
		})
	}
	return out, nil
}

func (l ledgerPort) RequestArtifactLink(ctx context.Context, uids []string, requestID string) (dom.ArtifactLink, error) {
	link, err := l.c.RequestArtifactLink(ctx, uids, requestID)
	if err != nil {
		return dom.ArtifactLink{}, err
	}
	return dom.ArtifactLink{Status: link.Status, DownloadURL: link.DownloadURL, Filename: link.Filename}, nil
}
