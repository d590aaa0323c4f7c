// Package module wires the verification workflow and exposes its ports
package module

import (
	"notary/internal/adapters/ledger"
	"notary/internal/modkit"
	"notary/internal/modkit/httpkit"
	"notary/internal/services/verification/service"
)

// Module defines the verification module
type Module struct {
	ports Ports
}

// New constructs the verification module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	client := overrides.Ledger
	if client == nil {
		client = ledger.NewClient(ledger.OptionsFromConfig(deps.Cfg))
	}
	svc := service.New(ledgerPort{c: client})
	return &Module{ports: Ports{Verification: svc}}
}

// Ports returns the module ports (Verification)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "verification" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
