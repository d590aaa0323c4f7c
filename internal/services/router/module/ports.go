package module

import (
	"context"

	"notary/internal/adapters/chat"

	rdom "notary/internal/services/router/domain"
	stampdom "notary/internal/services/stamping/domain"
	verdom "notary/internal/services/verification/domain"
)

// Ports declares what the router needs injected from other modules
type Ports struct {
	Classifier   rdom.Classifier
	Explainer    rdom.Explainer
	Stamping     stampdom.ServicePort
	Verification verdom.ServicePort

	// Chat overrides the sender built from CHAT_REPLY_URL
	Chat chat.Sender
}

// Exposed is the port set the router module offers
type Exposed struct {
	Router     rdom.ServicePort
	Dispatcher rdom.DispatcherPort
}

// chatReplier adapts a chat sender to the router replier port
type chatReplier struct{ s chat.Sender }

func (c chatReplier) Reply(ctx context.Context, out rdom.Outbound) error {
	return c.s.Send(ctx, chat.Reply{To: out.To, Text: out.Text, EndSession: out.EndSession})
}
