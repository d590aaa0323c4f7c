// Package service implements the stamping workflow: submit a hash, poll the
// ledger until the handle is on chain or the attempt budget runs out, then
// optionally fetch a proof file link
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"notary/internal/core/protocol"
	"notary/internal/platform/logger"
	pstrings "notary/internal/platform/strings"

	dom "notary/internal/services/stamping/domain"
)

// User facing texts
const (
	MsgInvalidHash  = "The provided value doesn't look like a valid hash."
	MsgSubmitFailed = "❌ Failed to stamp hash. Please check the hash and try again."
	MsgConfirmed    = "🎉 Confirmed on blockchain!"
	MsgLinkMissing  = "⚠️ The proof file link could not be generated, the proof data above is still valid."
)

// Config controls the poll loop
type Config struct {
	MaxAttempts   int
	Delay         time.Duration
	ArtifactLinks bool
}

// Svc is the stamping workflow
type Svc struct {
	ledger dom.LedgerPort
	cfg    Config
	log    logger.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

var _ dom.ServicePort = (*Svc)(nil)

// New constructs the workflow over a ledger port
func New(ledger dom.LedgerPort, cfg Config) *Svc {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	return &Svc{
		ledger: ledger,
		cfg:    cfg,
		log:    *logger.Named("stamping"),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// RequestID derives a ledger request id from the first 8 characters of the caller id
func RequestID(callerID string, now time.Time) string {
	prefix := pstrings.Truncate(callerID, 8)
	if prefix == "" {
		prefix = "stamp"
	}
	return prefix + "-" + strconv.FormatInt(now.Unix(), 10)
}

// StampAndConfirm runs the whole workflow and always returns a result
func (s *Svc) StampAndConfirm(ctx context.Context, hash, callerID string, progress chan<- dom.Progress) dom.StampResult {
	if !protocol.ValidHash(hash) {
		return dom.StampResult{Message: MsgInvalidHash}
	}

	requestID := RequestID(callerID, s.now())
	log := s.log.With().Str("request_id", requestID).Logger()

	uid, err := s.Submit(ctx, hash, requestID)
	if err != nil {
		log.Warn().Err(err).Msg("hash submission failed")
		return dom.StampResult{Message: MsgSubmitFailed}
	}

	emit(progress, dom.Progress{
		Stage: dom.StageSubmitted,
		UID:   uid,
		Text:  fmt.Sprintf("✅ Hash stamped successfully!\n\n**UID:** %s\n\nChecking on‑chain confirmation...", uid),
	}, log)

	conf := s.WaitForOnchain(ctx, uid, progress)
	if !conf.Onchain {
		return dom.StampResult{
			Success: true,
			UID:     uid,
			Message: fmt.Sprintf("⏳ Status Update\n\n**UID:** %s\nStill waiting for blockchain confirmation.", uid),
		}
	}

	bundle := conf.Proof
	res := dom.StampResult{
		Success: true,
		Onchain: true,
		UID:     uid,
		Proof:   &bundle,
		Message: MsgConfirmed,
	}
	if !s.cfg.ArtifactLinks {
		return res
	}

	link, err := s.ledger.RequestArtifactLink(ctx, []string{uid}, requestID)
	if err != nil {
		log.Warn().Err(err).Str("uid", uid).Msg("artifact link unavailable")
		res.Message += "\n\n" + MsgLinkMissing
		return res
	}
	res.ArtifactLink = &link
	return res
}

// Submit sends the hash to the ledger once and returns the stamping handle
func (s *Svc) Submit(ctx context.Context, hash, requestID string) (string, error) {
	uid, err := s.ledger.SubmitHash(ctx, hash, requestID)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("request_id", requestID).Str("uid", uid).Msg("hash submitted")
	return uid, nil
}

// WaitForOnchain polls the status of uid with a fixed delay until it is on
// chain, a lookup fails, or MaxAttempts lookups were made
func (s *Svc) WaitForOnchain(ctx context.Context, uid string, progress chan<- dom.Progress) dom.Confirmation {
	log := s.log.With().Str("uid", uid).Logger()
	limit := s.cfg.MaxAttempts

	for attempt := 1; attempt <= limit; attempt++ {
		report, err := s.ledger.PollStatus(ctx, []string{uid})
		if err != nil || !report.Succeeded() {
			log.Warn().Err(err).Str("status", report.Status).Int("attempt", attempt).Msg("status lookup failed")
			return dom.Confirmation{Attempts: attempt}
		}
		if len(report.Records) > 0 && report.Records[0].Onchain {
			log.Info().Int("attempt", attempt).Msg("hash confirmed on chain")
			return dom.Confirmation{Onchain: true, Proof: report.Records[0].Bundle, Attempts: attempt}
		}

		if attempt > 1 {
			emit(progress, dom.Progress{
				Stage:       dom.StageAttempt,
				UID:         uid,
				Attempt:     attempt,
				MaxAttempts: limit,
				Text:        fmt.Sprintf("⏳ Waiting for blockchain confirmation (attempt %d/%d)...", attempt, limit),
			}, log)
		}
		if attempt == limit {
			break
		}
		if err := s.sleep(ctx, s.cfg.Delay); err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Msg("poll abandoned")
			return dom.Confirmation{Attempts: attempt}
		}
	}

	log.Info().Int("attempts", limit).Msg("not on chain after all attempts")
	return dom.Confirmation{Attempts: limit}
}

// emit never blocks; a nil or full channel drops the notice
func emit(ch chan<- dom.Progress, p dom.Progress, log logger.Logger) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
		log.Debug().Str("stage", string(p.Stage)).Msg("progress notice dropped")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
