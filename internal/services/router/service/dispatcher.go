package service

import (
	"context"
	"sync"

	perr "notary/internal/platform/errors"
	"notary/internal/platform/logger"

	dom "notary/internal/services/router/domain"
)

// DispatchConfig bounds the background routing
type DispatchConfig struct {
	Workers int
	Queue   int
}

// Dispatcher routes queued chat messages on a bounded set of goroutines and
// hands every notice and terminal reply to the replier
type Dispatcher struct {
	router dom.ServicePort
	reply  dom.Replier
	cfg    DispatchConfig
	queue  chan dom.Inbound
	log    logger.Logger
}

var _ dom.DispatcherPort = (*Dispatcher)(nil)

// NewDispatcher constructs a dispatcher; Run must be called to drain the queue
func NewDispatcher(router dom.ServicePort, reply dom.Replier, cfg DispatchConfig) *Dispatcher {
	cfg.Workers = max(1, cfg.Workers)
	cfg.Queue = max(1, cfg.Queue)
	return &Dispatcher{
		router: router,
		reply:  reply,
		cfg:    cfg,
		queue:  make(chan dom.Inbound, cfg.Queue),
		log:    *logger.Named("chat-dispatcher"),
	}
}

// Enqueue accepts a message without blocking; a full queue is reported as
// too many requests
func (d *Dispatcher) Enqueue(in dom.Inbound) error {
	select {
	case d.queue <- in:
		return nil
	default:
		return perr.New(perr.ErrorCodeTooManyRequests, "chat queue is full")
	}
}

// Run drains the queue until ctx is done, then waits for in-flight messages
func (d *Dispatcher) Run(ctx context.Context) error {
	sem := make(chan struct{}, d.cfg.Workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-d.queue:
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			wg.Add(1)
			go func() {
				defer func() { <-sem; wg.Done() }()
				d.handle(ctx, in)
			}()
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, in dom.Inbound) {
	notices := make(chan dom.Outbound, noticeBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := range notices {
			d.deliver(ctx, n)
		}
	}()

	out := d.route(ctx, in, notices)
	close(notices)
	<-done
	d.deliver(ctx, out)
}

// route converts a panic into the apology so one message never takes the process down
func (d *Dispatcher) route(ctx context.Context, in dom.Inbound, notices chan<- dom.Outbound) (out dom.Outbound) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("sender", in.Sender).Msg("routing panicked")
			out = reply(in, MsgApology, false)
		}
	}()
	return d.router.Route(ctx, in, notices)
}

func (d *Dispatcher) deliver(ctx context.Context, out dom.Outbound) {
	if err := d.reply.Reply(ctx, out); err != nil {
		d.log.Warn().Err(err).Str("to", out.To).Msg("chat reply failed")
	}
}
