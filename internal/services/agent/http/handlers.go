// Package http exposes the RPC provider over HTTP and the agent websocket
package http

import (
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"

	"notary/internal/modkit/httpkit"
	perr "notary/internal/platform/errors"

	"notary/internal/services/agent/domain"
)

const maxBody = 1 << 20

// Link is the websocket endpoint and its peer table
type Link interface {
	stdhttp.Handler
	Name() string
	Peers() []string
}

// Register mounts the agent routes
func Register(r httpkit.Router, p domain.ProviderPort, link Link) {
	h := &handlers{link: link}
	r.Post("/integritas/stamp", command(p.HandleStamp))
	r.Post("/integritas/status", command(p.HandleUid))
	r.Post("/integritas/verify", command(p.HandleVerify))
	httpkit.Get(r, "/peers", h.peers)
	r.Handle("/ws", link)
}

type handlers struct{ link Link }

// command decodes the request without tag validation; the provider answers
// bad input with a BAD_REQUEST response exactly as it does on the websocket
//
// swagger:route POST /agent/integritas/stamp Agent stamp
// @Summary Submit a hash for stamping
// @Tags agent
// @Accept json
// @Produce json
// @Param payload body protocol.StampHashRequest true "Stamp"
// @Success 200 {object} protocol.StampHashResponse "ok"
// @Router /agent/integritas/stamp [post]
func command[T, R any](fn func(context.Context, T) R) httpkit.Handler {
	return httpkit.Handle(func(r *stdhttp.Request) httpkit.Response {
		var in T
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return httpkit.Error(perr.Wrapf(err, perr.ErrorCodeJSON, "invalid JSON"))
		}
		return httpkit.OK(fn(r.Context(), in))
	})
}

// swagger:route GET /agent/peers Agent peers
// @Summary Connected agents
// @Tags agent
// @Produce json
// @Success 200 {object} domain.PeersResponse "ok"
// @Router /agent/peers [get]
func (h *handlers) peers(_ *stdhttp.Request) (any, error) {
	names := h.link.Peers()
	out := domain.PeersResponse{Self: h.link.Name(), Peers: make([]domain.Peer, 0, len(names))}
	for _, n := range names {
		out.Peers = append(out.Peers, domain.Peer{Name: n})
	}
	return out, nil
}
