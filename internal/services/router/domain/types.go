// Package domain holds the chat routing types and the ports the router depends on
package domain

import "notary/internal/core/proof"

// Inbound is one chat message from a participant
type Inbound struct {
	Sender      string             `json:"sender"                validate:"required"       example:"agent1qx4u3j6v"`
	Text        string             `json:"text"                  validate:"required"       example:"Please stamp this hash 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	Attachments []proof.Attachment `json:"attachments,omitempty" validate:"omitempty,dive"`
}

// Outbound is one message back to a participant
type Outbound struct {
	To         string `json:"to"`
	Text       string `json:"text"`
	EndSession bool   `json:"end_session,omitempty"`
}

// Queued acknowledges an accepted inbound message
type Queued struct {
	Queued bool   `json:"queued"`
	Sender string `json:"sender"`
}
