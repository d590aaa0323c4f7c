package module

import "notary/internal/adapters/ledger"

// Options controls the verification module
type Options struct {
	// Ledger is shared with the stamping module when set; otherwise a
	// client is built from LEDGER_* config
	Ledger *ledger.Client
}
