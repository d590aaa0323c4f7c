// Package api composes the agent process: workflows, chat routing, agent RPC
// and meta endpoints mounted under /api/v1
package api

import (
	"context"
	"sort"
	"strings"

	"notary/internal/adapters/agentlink"
	"notary/internal/adapters/chat"
	"notary/internal/adapters/classifier"
	"notary/internal/adapters/ledger"
	"notary/internal/platform/config"
	perr "notary/internal/platform/errors"
	phttp "notary/internal/platform/net/http"

	"notary/internal/modkit"
	"notary/internal/modkit/httpkit"
	"notary/internal/modkit/module"
	"notary/internal/modkit/swaggerkit"

	agentmod "notary/internal/services/agent/module"
	metahttp "notary/internal/services/meta/http"
	metamod "notary/internal/services/meta/module"
	routermod "notary/internal/services/router/module"
	stampmod "notary/internal/services/stamping/module"
	vermod "notary/internal/services/verification/module"
)

// BaseURL is where module routes are mounted
const BaseURL = "/api/v1"

// Options are the API options
type Options struct {
	Config     config.Conf
	Ledger     *ledger.Client
	Classifier classifier.Client

	// Chat overrides the reply sender built from CHAT_REPLY_URL
	Chat chat.Sender

	EnableSwagger  bool
	EnableProfiler bool
}

// App holds the long running modules the process supervises
type App struct {
	Chat  *routermod.Module
	Agent *agentmod.Module
}

// Run drains the chat queue until ctx is done
func (a *App) Run(ctx context.Context) error { return a.Chat.Run(ctx) }

// Start dials configured agent peers
func (a *App) Start(ctx context.Context) { a.Agent.Start(ctx) }

// Close drops agent connections and running RPC commands
func (a *App) Close() { a.Agent.Close() }

// Mount builds every module, mounts the routes and returns the runnable parts
func Mount(r phttp.Router, opt Options) *App {
	deps := modkit.Deps{Cfg: opt.Config}

	// the workflows share one ledger client and are consumed through their ports
	stamping := stampmod.New(deps, stampmod.Options{Ledger: opt.Ledger})
	verification := vermod.New(deps, vermod.Options{Ledger: opt.Ledger})
	stampPorts := module.MustPortsOf[stampmod.Ports](stamping)
	verPorts := module.MustPortsOf[vermod.Ports](verification)

	// API_TOKENS turns on bearer auth for chat and agent routes; meta stays open for probes
	tokens := httpkit.TokensFromConfig(deps.Cfg.Prefix("API_"))

	chatMod := routermod.New(deps, modkit.WithSubrouter(httpkit.Secured("/chat", tokens)), modkit.WithPorts(routermod.Ports{
		Classifier:   opt.Classifier,
		Explainer:    opt.Classifier,
		Stamping:     stampPorts.Stamping,
		Verification: verPorts.Verification,
		Chat:         opt.Chat,
	}))
	agentMod := agentmod.New(deps, modkit.WithSubrouter(httpkit.Secured("/agent", tokens)), modkit.WithPorts(agentmod.Ports{
		Stamping:     stampPorts.Stamping,
		Verification: verPorts.Verification,
	}))
	link := module.MustPortsOf[agentmod.Exposed](agentMod).Link

	metaMod := metamod.New(deps, modkit.WithPorts(metamod.Ports{
		Checks: []metahttp.Check{
			{Name: "ledger", Pinger: pingerOrNil(opt.Ledger)},
			{Name: "peers", Pinger: peersCheck{link: link, want: agentmod.FromConfig(deps.Cfg).Peers}},
		},
		Agent:   link,
		Modules: module.Names,
	}))

	mods := []module.Module{
		stamping,
		verification,
		metaMod,
		chatMod,
		agentMod,
	}

	// status RPCs poll for up to POLL_MAX_ATTEMPTS x POLL_DELAY and the socket
	// is long lived, so neither runs under the request timeout
	stackOpt := httpkit.StackFromConfig(deps.Cfg.Prefix("API_"))
	stackOpt.Untimed = []string{BaseURL + "/agent/integritas/", BaseURL + "/agent/ws"}
	stack := httpkit.CommonStack(stackOpt)
	httpkit.MountAPI(r, "v1", stack, func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger, BaseURL)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// /meta/service lists what got registered here
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return &App{Chat: chatMod, Agent: agentMod}
}

// pingerOrNil keeps a nil client from turning into a non-nil interface
func pingerOrNil(c *ledger.Client) metahttp.Pinger {
	if c == nil {
		return nil
	}
	return c
}

// peersCheck fails readiness while a configured peer is not connected
type peersCheck struct {
	link *agentlink.Transport
	want map[string]string
}

func (p peersCheck) Ping(context.Context) error {
	connected := map[string]bool{}
	for _, n := range p.link.Peers() {
		connected[n] = true
	}
	var missing []string
	for n := range p.want {
		if !connected[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return perr.Unavailablef("peers not connected: %s", strings.Join(missing, ", "))
}
