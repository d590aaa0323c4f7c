package domain

import "context"

// Classifier turns chat text into a label prefixed command
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Explainer reads a verification report back in plain language
type Explainer interface {
	Explain(ctx context.Context, report string) (string, error)
}

// Replier delivers outbound messages to the chat transport
type Replier interface {
	Reply(ctx context.Context, out Outbound) error
}

// ServicePort routes one inbound message; the terminal reply is returned and
// intermediate notices go to the channel when it is not nil
type ServicePort interface {
	Route(ctx context.Context, in Inbound, notices chan<- Outbound) Outbound
}

// DispatcherPort accepts inbound messages for background routing
type DispatcherPort interface {
	Enqueue(in Inbound) error
}
