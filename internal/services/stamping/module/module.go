// Package module wires the stamping workflow and exposes its ports
package module

import (
	"notary/internal/adapters/ledger"
	"notary/internal/modkit"
	"notary/internal/modkit/httpkit"
	"notary/internal/services/stamping/service"
)

// Module defines the stamping module
type Module struct {
	ports Ports
}

// New constructs the stamping module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.MaxAttempts != 0 {
		opts.MaxAttempts = overrides.MaxAttempts
	}
	if overrides.Delay != 0 {
		opts.Delay = overrides.Delay
	}
	if overrides.ArtifactLinks != nil {
		opts.ArtifactLinks = overrides.ArtifactLinks
	}
	client := overrides.Ledger
	if client == nil {
		client = ledger.NewClient(ledger.OptionsFromConfig(deps.Cfg))
	}

	svc := service.New(ledgerPort{c: client}, service.Config{
		MaxAttempts:   opts.MaxAttempts,
		Delay:         opts.Delay,
		ArtifactLinks: opts.ArtifactLinks != nil && *opts.ArtifactLinks,
	})

	return &Module{ports: Ports{Stamping: svc}}
}

// Ports returns the module ports (Stamping)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "stamping" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
