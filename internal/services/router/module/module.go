// Package module wires chat routing into the API using modkit
package module

import (
	"context"

	"notary/internal/adapters/chat"
	modkit "notary/internal/modkit"
	"notary/internal/modkit/httpkit"

	rhttp "notary/internal/services/router/http"
	rsvc "notary/internal/services/router/service"
)

// Module implements the chat routing module
type Module struct {
	built modkit.Built

	router     *rsvc.Svc
	dispatcher *rsvc.Dispatcher
}

// New constructs the chat module; Ports must carry the classifier and both workflows
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("chat"),
		modkit.WithPrefix("/chat"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Classifier == nil || injected.Stamping == nil || injected.Verification == nil {
		panic("chat module requires Classifier, Stamping and Verification ports")
	}
	sender := injected.Chat
	if sender == nil {
		sender = chat.New(cfg.ReplyURL, cfg.ReplyTimeout)
	}

	router := rsvc.New(injected.Classifier, injected.Explainer, injected.Stamping, injected.Verification)
	dispatcher := rsvc.NewDispatcher(router, chatReplier{s: sender}, rsvc.DispatchConfig{
		Workers: cfg.Workers,
		Queue:   cfg.Queue,
	})

	return &Module{built: b, router: router, dispatcher: dispatcher}
}

// Run drains the chat queue until ctx is done
func (m *Module) Run(ctx context.Context) error { return m.dispatcher.Run(ctx) }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { rhttp.Register(rr, m.dispatcher) })
}

// Ports returns the router and dispatcher
func (m *Module) Ports() any { return Exposed{Router: m.router, Dispatcher: m.dispatcher} }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }
