// Package module wires the agent link, the RPC provider and the typed client
package module

import (
	"context"
	"sort"

	"notary/internal/adapters/agentlink"
	"notary/internal/core/correlate"
	modkit "notary/internal/modkit"
	"notary/internal/modkit/httpkit"
	"notary/internal/platform/logger"

	"notary/internal/services/agent/client"
	ahttp "notary/internal/services/agent/http"
	asvc "notary/internal/services/agent/service"
)

// Module implements the agent module
type Module struct {
	built modkit.Built
	opts  Options

	link     *agentlink.Transport
	calls    *correlate.Correlator
	inbox    *asvc.Inbox
	provider *asvc.Provider
	client   *client.Client
}

// New constructs the agent module; Ports must carry both workflows
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("agent"),
		modkit.WithPrefix("/agent"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Stamping == nil || injected.Verification == nil {
		panic("agent module requires Stamping and Verification ports")
	}

	link := agentlink.New(cfg.Name)
	link.SetToken(cfg.PeerToken)
	calls := correlate.New(link, cfg.Name)
	provider := asvc.NewProvider(injected.Stamping, injected.Verification)
	inbox := asvc.NewInbox(provider, calls, link)
	link.OnMessage(inbox.Handle)

	return &Module{
		built:    b,
		opts:     cfg,
		link:     link,
		calls:    calls,
		inbox:    inbox,
		provider: provider,
		client:   client.New(calls, cfg.RPCTimeout),
	}
}

// Start dials the configured peers; a failed dial is logged and skipped
func (m *Module) Start(ctx context.Context) {
	log := logger.Named("agent")
	names := make([]string, 0, len(m.opts.Peers))
	for n := range m.opts.Peers {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if err := m.link.Connect(ctx, n, m.opts.Peers[n]); err != nil {
			log.Warn().Err(err).Str("peer", n).Msg("peer dial failed")
		}
	}
}

// Close stops running commands and drops every connection
func (m *Module) Close() {
	m.inbox.Close()
	m.link.Close()
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { ahttp.Register(rr, m.provider, m.link) })
}

// Ports returns the provider, client and link
func (m *Module) Ports() any {
	return Exposed{Provider: m.provider, Client: m.client, Link: m.link}
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }
