// Package ledger is the HTTP client for the remote stamping and verification
// service. Every call carries the api key header; transient failures are
// retried here so the workflows above never retry
package ledger

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
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxRetry  = 2
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 30 * time.Second
	maxBody          = 1 << 20
)

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// Retry config for transport errors and transient 5xx responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client talks to the ledger REST API
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewClient creates a new Client, BaseURL is required
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("ledger"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// request describes one call; body is rebuilt per attempt
type request struct {
	path        string
	requestID   string
	contentType string
	headers     map[string]string
	body        func() ([]byte, error)
}

// do posts req with retries and decodes a 200 body into out
func (c *Client) do(ctx context.Context, req request, out any) error {
	payload, err := req.body()
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "ledger encode %s", req.path)
	}

	url := c.opts.BaseURL + req.path
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return perr.FromContext(err, "ledger "+req.path)
		}

		hr, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "ledger new request failed")
		}
		hr.Header.Set("x-api-key", c.opts.APIKey)
		hr.Header.Set("Accept", "application/json")
		hr.Header.Set("Content-Type", req.contentType)
		if req.requestID != "" {
			hr.Header.Set("x-request-id", req.requestID)
		}
		for k, v := range req.headers {
			hr.Header.Set(k, v)
		}

		start := c.now()
		resp, err := c.http.Do(hr)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return perr.FromContext(ctx.Err(), "ledger "+req.path)
			}
			if isTimeout(err) && !c.shouldRetry(attempts) {
				return perr.Wrapf(err, perr.ErrorCodeTimeout, "ledger %s timed out", req.path)
			}
			if !c.shouldRetry(attempts) {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger %s failed", req.path)
			}
			back := c.backoff(attempts)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Str("path", req.path).Msg("ledger transport error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return perr.FromContext(err, "ledger "+req.path)
			}
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", http.MethodPost).
			Str("path", req.path).
			Str("request_id", req.requestID).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("ledger http response")

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			defer resp.Body.Close()
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger read %s", req.path)
			}
			if err := json.Unmarshal(b, out); err != nil {
				return perr.Wrapf(err, perr.ErrorCodeJSON, "ledger decode %s", req.path)
			}
			return nil
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				return statusError(resp, req.path)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Int("status", resp.StatusCode).Msg("ledger transient error retrying")
			_ = drainAndClose(resp.Body)
			if err := c.sleep(ctx, back); err != nil {
				return perr.FromContext(err, "ledger "+req.path)
			}
			attempts++
			continue
		default:
			return statusError(resp, req.path)
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ping reports whether the ledger host answers at all. Any response below 500
// counts as reachable; the api key is not checked
func (c *Client) Ping(ctx context.Context) error {
	hr, err := http.NewRequestWithContext(ctx, http.MethodHead, c.opts.BaseURL+"/", nil)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "ledger new request failed")
	}
	resp, err := c.http.Do(hr)
	if err != nil {
		if ctx.Err() != nil {
			return perr.FromContext(ctx.Err(), "ledger ping")
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ledger unreachable")
	}
	_ = drainAndClose(resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return perr.Unavailablef("ledger ping status %d", resp.StatusCode)
	}
	return nil
}
