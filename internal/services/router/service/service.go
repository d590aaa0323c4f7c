// Package service routes chat messages to the stamping and verification
// workflows and renders their outcomes as chat replies
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notary/internal/core/digest"
	"notary/internal/core/intent"
	"notary/internal/platform/logger"

	dom "notary/internal/services/router/domain"
	stampdom "notary/internal/services/stamping/domain"
	stampsvc "notary/internal/services/stamping/service"
	verdom "notary/internal/services/verification/domain"
)

// Chat texts
const (
	MsgApology          = "I’m sorry—something went wrong while processing your request."
	MsgHashFilePrompt   = "I'd be happy to help you hash a file! Please upload a file so I can generate the hash for you."
	MsgStampFilePrompt  = "I'd be happy to stamp a file for you! Please upload a file so I can hash it and then stamp the hash on the blockchain."
	MsgVerifyFailed     = "❌ Failed to verify proof. Please check your data and try again."
	MsgNoProofFile      = "❌ No file uploaded. Please upload a proof file to verify."
	MsgNotProofFile     = "❌ The uploaded file is not a valid proof file. Please ensure it's a JSON file with the required structure containing address, data, proof, and root properties."
	MsgVerifyFileFailed = "❌ Failed to verify proof from file. Please check your proof file and try again."
)

const noticeBuffer = 8

// Svc is the intent router
type Svc struct {
	classifier dom.Classifier
	explainer  dom.Explainer
	stamping   stampdom.ServicePort
	verify     verdom.ServicePort
	log        logger.Logger
	now        func() time.Time
}

var _ dom.ServicePort = (*Svc)(nil)

// New constructs the router; explainer may be nil
func New(c dom.Classifier, e dom.Explainer, s stampdom.ServicePort, v verdom.ServicePort) *Svc {
	return &Svc{
		classifier: c,
		explainer:  e,
		stamping:   s,
		verify:     v,
		log:        *logger.Named("router"),
		now:        time.Now,
	}
}

// ClassifierInput annotates text with the name of the first attachment
func ClassifierInput(in dom.Inbound) string {
	text := intent.Normalize(in.Text)
	if len(in.Attachments) > 0 {
		name := in.Attachments[0].Filename
		if name == "" {
			name = "uploaded_file"
		}
		text += " [File uploaded: " + name + "]"
	}
	return text
}

// Route classifies the message and runs the matching workflow
func (s *Svc) Route(ctx context.Context, in dom.Inbound, notices chan<- dom.Outbound) dom.Outbound {
	log := s.log.With().Str("sender", in.Sender).Logger()

	label, err := s.classifier.Classify(ctx, ClassifierInput(in))
	if err != nil {
		log.Error().Err(err).Msg("classifier failed")
		return reply(in, MsgApology, false)
	}
	it := intent.Parse(label)
	log.Info().Str("intent", string(it.Kind)).Int("attachments", len(in.Attachments)).Msg("message classified")

	switch it.Kind {
	case intent.StampHash:
		return s.stamp(ctx, in, it.Hash(), notices)

	case intent.HashFile:
		if len(in.Attachments) == 0 {
			return reply(in, MsgHashFilePrompt, false)
		}
		a := in.Attachments[0]
		return reply(in, FileHashed(a.Filename, digest.Bytes(a.Content)), false)

	case intent.StampFile:
		if len(in.Attachments) == 0 {
			return reply(in, MsgStampFilePrompt, false)
		}
		return s.stamp(ctx, in, digest.Bytes(in.Attachments[0].Content), notices)

	case intent.VerifyProof:
		b, missing := it.Bundle()
		if len(missing) > 0 {
			return reply(in, fmt.Sprintf("Missing keys in JSON: %s.", strings.Join(missing, ", ")), false)
		}
		rep, err := s.verify.Verify(ctx, b, s.requestID(in.Sender))
		if err != nil {
			log.Warn().Err(err).Msg("verification failed")
			return reply(in, MsgVerifyFailed, false)
		}
		return reply(in, VerificationReport(rep, s.explain(ctx, rep)), true)

	case intent.VerifyProofFile:
		return s.verifyFile(ctx, in)

	default:
		return reply(in, it.Raw, false)
	}
}

func (s *Svc) verifyFile(ctx context.Context, in dom.Inbound) dom.Outbound {
	if len(in.Attachments) == 0 {
		return reply(in, MsgNoProofFile, false)
	}
	a := in.Attachments[0]
	rep, err := s.verify.VerifyFile(ctx, a, s.requestID(in.Sender))
	if errors.Is(err, verdom.ErrNotProofFile) {
		return reply(in, MsgNotProofFile, false)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("sender", in.Sender).Str("file", a.Filename).Msg("proof file verification failed")
		return reply(in, MsgVerifyFileFailed, false)
	}
	return reply(in, VerificationReport(rep, s.explain(ctx, rep)), true)
}

// stamp runs the stamping workflow, relaying its progress as notices
func (s *Svc) stamp(ctx context.Context, in dom.Inbound, hash string, notices chan<- dom.Outbound) dom.Outbound {
	var progress chan stampdom.Progress
	if notices != nil {
		progress = make(chan stampdom.Progress, noticeBuffer)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for p := range progress {
				select {
				case notices <- reply(in, p.Text, false):
				case <-ctx.Done():
				}
			}
		}()
		defer func() {
			close(progress)
			<-done
		}()
	}

	res := s.stamping.StampAndConfirm(ctx, hash, in.Sender, progress)
	switch {
	case !res.Success:
		return reply(in, res.Message, false)
	case res.Onchain:
		return reply(in, Confirmation(res), true)
	default:
		return reply(in, res.Message, true)
	}
}

// explain asks the backend for an analysis; failure leaves it empty
func (s *Svc) explain(ctx context.Context, rep verdom.Report) string {
	if s.explainer == nil {
		return ""
	}
	text, err := s.explainer.Explain(ctx, string(rep.Raw))
	if err != nil {
		s.log.Warn().Err(err).Msg("report explanation unavailable")
		return ""
	}
	return strings.TrimSpace(text)
}

// requestID is the ledger request id used for chat initiated verification
func (s *Svc) requestID(sender string) string {
	return "chat-" + stampsvc.RequestID(sender, s.now())
}

func reply(in dom.Inbound, text string, end bool) dom.Outbound {
	return dom.Outbound{To: in.Sender, Text: text, EndSession: end}
}
