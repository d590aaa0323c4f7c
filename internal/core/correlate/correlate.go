// Package correlate matches asynchronous replies to outstanding calls by
// request id. A Correlator owns the pending-call table for one process; every
// call resolves exactly once, either by a matching reply or by its deadline
package correlate

import (
	"context"
	"sync"
	"time"

	"notary/internal/core/protocol"
	"notary/internal/platform/logger"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a call when the caller passes a non-positive timeout
const DefaultTimeout = 30 * time.Second

// Sender delivers a message to a named peer
type Sender interface {
	Send(ctx context.Context, target string, m protocol.Message) error
}

// SenderFunc adapts a function to Sender
type SenderFunc func(ctx context.Context, target string, m protocol.Message) error

// Send implements Sender
func (f SenderFunc) Send(ctx context.Context, target string, m protocol.Message) error {
	return f(ctx, target, m)
}

type pendingCall struct {
	slot     chan protocol.Message
	deadline time.Time
}

// Correlator issues commands through a Sender and waits for their replies
type Correlator struct {
	send  Sender
	name  string
	newID func() string
	now   func() time.Time
	log   logger.Logger

	mu      sync.Mutex
	pending map[string]*pendingCall
}

// New returns a Correlator that stamps outgoing messages with name as sender
func New(send Sender, name string) *Correlator {
	return &Correlator{
		send:    send,
		name:    name,
		newID:   func() string { return "rpc-" + uuid.NewString() },
		now:     time.Now,
		log:     *logger.Named("correlate"),
		pending: make(map[string]*pendingCall),
	}
}

// Call sends cmd to target and blocks until the matching reply arrives or the
// timeout elapses. It never returns an error: failures come back as a reply
// message whose Response carries ok=false and a wire error code
func (c *Correlator) Call(ctx context.Context, target string, kind protocol.Kind, cmd protocol.Command, timeout time.Duration) protocol.Message {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	id := c.newID()
	cmd.SetRequestID(id)

	msg, err := protocol.NewMessage(kind, id, cmd)
	if err != nil {
		return protocol.Failure(kind, id, protocol.CodeInternal, err.Error())
	}
	msg.Sender = c.name

	slot, ok := c.register(id, c.now().Add(timeout))
	if !ok {
		return protocol.Failure(kind, id, protocol.CodeInternal, "duplicate request id")
	}

	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.send.Send(wctx, target, msg); err != nil {
		c.remove(id)
		c.log.Warn().Err(err).Str("target", target).Str("kind", string(kind)).Str("request_id", id).Msg("rpc send failed")
		return protocol.Failure(kind, id, protocol.CodeInternal, "send failed: "+err.Error())
	}

	select {
	case reply := <-slot:
		return reply
	case <-wctx.Done():
	}

	c.remove(id)
	// a reply delivered before removal still wins
	select {
	case reply := <-slot:
		return reply
	default:
	}

	if ctx.Err() != nil {
		c.log.Debug().Str("request_id", id).Msg("rpc call abandoned")
		return protocol.Failure(kind, id, protocol.CodeTimeout, "call abandoned")
	}
	c.log.Warn().Str("target", target).Str("kind", string(kind)).Str("request_id", id).Dur("timeout", timeout).Msg("rpc call timed out")
	return protocol.Failure(kind, id, protocol.CodeTimeout, "no reply within "+timeout.String())
}

// Deliver resolves the pending call matching msg.RequestID. Late, duplicate
// and foreign replies are dropped and reported as false
func (c *Correlator) Deliver(msg protocol.Message) bool {
	c.mu.Lock()
	p, ok := c.pending[msg.RequestID]
	if ok {
		delete(c.pending, msg.RequestID)
		// filled under the lock so a caller that removes after its deadline
		// still finds the reply; sole writer, the slot has room
		p.slot <- msg
	}
	c.mu.Unlock()

	if !ok {
		c.log.Debug().Str("request_id", msg.RequestID).Str("kind", string(msg.Kind)).Msg("dropping uncorrelated reply")
	}
	return ok
}

// Pending reports the number of live calls
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Deadline returns the deadline of a live call
func (c *Correlator) Deadline(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return time.Time{}, false
	}
	return p.deadline, true
}

func (c *Correlator) register(id string, deadline time.Time) (chan protocol.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.pending[id]; dup {
		return nil, false
	}
	slot := make(chan protocol.Message, 1)
	c.pending[id] = &pendingCall{slot: slot, deadline: deadline}
	return slot, true
}

func (c *Correlator) remove(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
