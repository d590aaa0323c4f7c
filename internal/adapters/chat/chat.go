// Package chat delivers replies to chat participants, either through a
// webhook or into the log when no transport is configured
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "notary/internal/platform/errors"
	"notary/internal/platform/logger"

	"github.com/google/uuid"
)

// Content types carried by an envelope
const (
	ContentText       = "text"
	ContentEndSession = "end-session"
)

// Reply is one outbound chat message
type Reply struct {
	To         string
	Text       string
	EndSession bool
}

// Content is one element of a chat envelope
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Envelope is the JSON body posted to the webhook
type Envelope struct {
	To        string    `json:"to"`
	MsgID     string    `json:"msg_id"`
	Timestamp time.Time `json:"timestamp"`
	Content   []Content `json:"content"`
}

// Sender delivers replies
type Sender interface {
	Send(ctx context.Context, r Reply) error
}

// EnvelopeFor builds the wire envelope of a reply
func EnvelopeFor(r Reply, msgID string, now time.Time) Envelope {
	env := Envelope{
		To:        r.To,
		MsgID:     msgID,
		Timestamp: now.UTC(),
		Content:   []Content{{Type: ContentText, Text: r.Text}},
	}
	if r.EndSession {
		env.Content = append(env.Content, Content{Type: ContentEndSession})
	}
	return env
}

// Webhook posts replies to a fixed URL
type Webhook struct {
	http  *http.Client
	url   string
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// NewWebhook creates a webhook sender
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		http:  &http.Client{Timeout: timeout},
		url:   strings.TrimSpace(url),
		log:   *logger.Named("chat"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Send posts r as an envelope; any non-2xx status is an error
func (w *Webhook) Send(ctx context.Context, r Reply) error {
	env := EnvelopeFor(r, w.newID(), w.now())
	body, err := json.Marshal(env)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "chat encode reply")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "chat new request failed")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return perr.FromContext(ctx.Err(), "chat send")
		}
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "chat send failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	w.log.Debug().Str("to", r.To).Str("msg_id", env.MsgID).Int("status", resp.StatusCode).Bool("end_session", r.EndSession).Msg("chat reply sent")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.Newf(perr.CodeForStatus(resp.StatusCode), "chat webhook status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes replies to the log
type LogSender struct {
	log logger.Logger
}

// NewLogSender creates a sender that only logs
func NewLogSender() LogSender { return LogSender{log: *logger.Named("chat")} }

// Send logs r at info level
func (s LogSender) Send(_ context.Context, r Reply) error {
	s.log.Info().Str("to", r.To).Bool("end_session", r.EndSession).Str("text", r.Text).Msg("chat reply")
	return nil
}

// New returns a webhook sender for a non-empty url and a log sender otherwise
func New(url string, timeout time.Duration) Sender {
	if strings.TrimSpace(url) == "" {
		return NewLogSender()
	}
	return NewWebhook(url, timeout)
}
