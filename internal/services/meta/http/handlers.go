// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"notary/internal/core/version"
	"notary/internal/modkit/httpkit"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Check names one readiness probe; a nil Pinger is reported as skipped
type Check struct {
	Name   string
	Pinger Pinger
}

// Agent exposes the agent identity and its connected peers
type Agent interface {
	Name() string
	Peers() []string
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	Agent       Agent
	// Modules lists the mounted modules; nil omits the field
	Modules func() []string
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/agent", h.agent)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"notary-agent"`
	Started string `json:"started"  example:"2026-10-01T13:00:00Z"`
	Now     string `json:"now"      example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"ledger"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"ledger unreachable"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string   `json:"name"    example:"notary-agent"`
	Started string   `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules,omitempty"`
}

// AgentResponse reports the agent identity, its peers and build info
type AgentResponse struct {
	Name  string            `json:"name"  example:"notary"`
	Peers []string          `json:"peers"`
	Build version.BuildInfo `json:"build"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.now().UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	// probes run in parallel and never fail the group; each slot is owned by one goroutine
	results := make([]ReadyCheck, len(h.deps.Checks))
	var g errgroup.Group
	for i, c := range h.deps.Checks {
		g.Go(func() error {
			results[i] = probe(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return ReadyResponse{
		Status: overall(results),
		Checks: results,
		Now:    h.now().UTC().Format(time.RFC3339),
	}, nil
}

func probe(ctx stdctx.Context, c Check) ReadyCheck {
	if c.Pinger == nil {
		return ReadyCheck{Name: c.Name, Status: "skipped"}
	}
	if err := c.Pinger.Ping(ctx); err != nil {
		return ReadyCheck{Name: c.Name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: c.Name, Status: "ok"}
}

func overall(checks []ReadyCheck) string {
	status := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			return "fail"
		case "ok":
		default:
			status = "degraded"
		}
	}
	return status
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.now().Sub(h.deps.StartedAt)
	out := ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}
	if h.deps.Modules != nil {
		out.Modules = h.deps.Modules()
	}
	return out, nil
}

// @Summary Agent identity and connected peers
// @Tags Meta
// @Produce json
// @Success 200 type AgentResponse ok
// @Router /meta/agent [get]
func (h *handlers) agent(_ *http.Request) (any, error) {
	resp := AgentResponse{Peers: []string{}, Build: version.Info()}
	if h.deps.Agent != nil {
		resp.Name = h.deps.Agent.Name()
		if p := h.deps.Agent.Peers(); p != nil {
			resp.Peers = p
		}
	}
	return resp, nil
}
