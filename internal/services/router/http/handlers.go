// Package http provides http transport for chat routing
package http

import (
	stdhttp "net/http"

	"notary/internal/modkit/httpkit"
	"notary/internal/services/router/domain"
)

// Register mounts the router
func Register(r httpkit.Router, d domain.DispatcherPort) {
	h := &handlers{dispatch: d}
	httpkit.PostJSON[domain.Inbound](r, "/messages", h.message)
}

type handlers struct{ dispatch domain.DispatcherPort }

// swagger:route POST /chat/messages Chat message
// @Summary Queue a chat message for routing
// @Tags chat
// @Accept json
// @Produce json
// @Param payload body domain.Inbound true "Message"
// @Success 202 {object} domain.Queued "queued"
// @Failure 400 {object} httpkit.Envelope "invalid message"
// @Failure 429 {object} httpkit.Envelope "queue full"
// @Router /chat/messages [post]
func (h *handlers) message(_ *stdhttp.Request, in domain.Inbound) (any, error) {
	if err := h.dispatch.Enqueue(in); err != nil {
		return nil, err
	}
	return httpkit.Accepted(domain.Queued{Queued: true, Sender: in.Sender}), nil
}
