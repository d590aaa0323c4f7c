package service

import (
	"context"
	"sync"
	"time"

	"notary/internal/core/correlate"
	"notary/internal/core/protocol"
	"notary/internal/platform/logger"

	dom "notary/internal/services/agent/domain"
)

// replyTimeout bounds writing an answer back to the caller
const replyTimeout = 10 * time.Second

// Inbox routes incoming messages: replies resolve pending calls, commands
// run on the provider and are answered on the link they came from
type Inbox struct {
	provider dom.ProviderPort
	calls    *correlate.Correlator
	link     dom.Link
	log      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewInbox constructs an inbox; calls may be nil when the process never issues RPCs
func NewInbox(provider dom.ProviderPort, calls *correlate.Correlator, link dom.Link) *Inbox {
	ctx, cancel := context.WithCancel(context.Background())
	return &Inbox{
		provider: provider,
		calls:    calls,
		link:     link,
		log:      *logger.Named("rpc-inbox"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Handle dispatches one message; commands run on their own goroutine since
// a status check can poll for minutes
func (b *Inbox) Handle(peer string, m protocol.Message) {
	if m.Kind.IsReply() {
		if b.calls == nil || !b.calls.Deliver(m) {
			b.log.Debug().Str("peer", peer).Str("request_id", m.RequestID).Msg("reply without caller")
		}
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		b.answer(peer, b.execute(b.ctx, m))
	}()
}

// Close cancels running commands and waits for them to answer
func (b *Inbox) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()
	b.wg.Wait()
}

func (b *Inbox) execute(ctx context.Context, m protocol.Message) protocol.Message {
	log := b.log.With().Str("kind", string(m.Kind)).Str("request_id", m.RequestID).Str("peer", m.Sender).Logger()
	log.Info().Msg("rpc command received")

	var (
		resp any
		err  error
	)
	switch m.Kind {
	case protocol.KindStampHash:
		var req protocol.StampHashRequest
		if err = m.Decode(&req); err == nil {
			resp = b.provider.HandleStamp(ctx, req)
		}
	case protocol.KindUid:
		var req protocol.UidRequest
		if err = m.Decode(&req); err == nil {
			resp = b.provider.HandleUid(ctx, req)
		}
	case protocol.KindVerifyProof:
		var req protocol.VerifyProofRequest
		if err = m.Decode(&req); err == nil {
			resp = b.provider.HandleVerify(ctx, req)
		}
	default:
		log.Warn().Msg("unknown command")
		return protocol.Failure(m.Kind, m.RequestID, protocol.CodeBadRequest, "unknown command "+string(m.Kind))
	}
	if err != nil {
		return protocol.Failure(m.Kind, m.RequestID, protocol.CodeBadRequest, err.Error())
	}

	reply, err := protocol.NewMessage(m.Kind.Reply(), m.RequestID, resp)
	if err != nil {
		return protocol.Failure(m.Kind, m.RequestID, protocol.CodeInternal, err.Error())
	}
	return reply
}

func (b *Inbox) answer(peer string, reply protocol.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	if err := b.link.Send(ctx, peer, reply); err != nil {
		b.log.Warn().Err(err).Str("peer", peer).Str("request_id", reply.RequestID).Msg("rpc reply failed")
	}
}
