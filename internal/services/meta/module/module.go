// Package module wires meta endpoints into the API
package module

import (
	"time"

	"notary/internal/core/version"
	modkit "notary/internal/modkit"
	"notary/internal/modkit/httpkit"

	metahttp "notary/internal/services/meta/http"
)

// Ports are optional; without them /ready reports no checks and /agent is anonymous
type Ports struct {
	Checks  []metahttp.Check
	Agent   metahttp.Agent
	Modules func() []string
}

// Module serves health, readiness and build info
type Module struct {
	built     modkit.Built
	ports     Ports
	startedAt time.Time
}

// New constructs a meta module; deps are accepted for a uniform constructor
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	p, _ := b.Ports.(Ports)
	return &Module{built: b, ports: p, startedAt: time.Now()}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   m.startedAt,
			Checks:      m.ports.Checks,
			Agent:       m.ports.Agent,
			Modules:     m.ports.Modules,
		})
	})
}

func (m *Module) Name() string   { return m.built.Name }
func (m *Module) Prefix() string { return m.built.Prefix }

// Ports is nil; meta exposes nothing to other modules
func (m *Module) Ports() any { return nil }
