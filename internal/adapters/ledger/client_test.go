package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	perr "notary/internal/platform/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL + "/", APIKey: "k-123", MaxRetries: retries, RetryBase: time.Millisecond})
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSubmitHash_HeadersBodyAndUID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathSubmitHash || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "k-123" || r.Header.Get("x-request-id") != "req-1" {
			t.Errorf("missing headers: %v", r.Header)
		}
		var body submitHashBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Hash != "abc" {
			t.Errorf("hash = %q", body.Hash)
		}
		writeJSON(w, map[string]any{"status": "success", "data": map[string]any{"uid": "0xUID"}})
	}, 0)

	uid, err := c.SubmitHash(context.Background(), "abc", "req-1")
	if err != nil || uid != "0xUID" {
		t.Fatalf("SubmitHash = %q, %v", uid, err)
	}
}

func TestSubmitHash_NonSuccessEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"status": "error", "message": "bad hash"})
	}, 0)

	_, err := c.SubmitHash(context.Background(), "abc", "req-1")
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
}

func TestSubmitHash_MissingUID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"status": "success", "data": map[string]any{}})
	}, 0)
	if _, err := c.SubmitHash(context.Background(), "abc", "r"); err == nil {
		t.Fatalf("expected error for empty uid")
	}
}

func TestPollStatus_Records(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body uidsBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.UIDs) != 1 || body.UIDs[0] != "u1" {
			t.Errorf("uids = %v", body.UIDs)
		}
		writeJSON(w, map[string]any{"status": "success", "data": []map[string]any{
			{"onchain": true, "proof": "p", "root": "r", "address": "x", "data": "d"},
		}})
	}, 0)

	st, err := c.PollStatus(context.Background(), []string{"u1"})
	if err != nil {
		t.Fatalf("PollStatus: %v", err)
	}
	if !st.Succeeded() || len(st.Records) != 1 || !st.Records[0].Onchain || st.Records[0].Proof != "p" {
		t.Fatalf("bad status %+v", st)
	}
}

func TestPollStatus_NonSuccessIsData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"status": "pending", "data": "not-a-list"})
	}, 0)
	st, err := c.PollStatus(context.Background(), []string{"u1"})
	if err != nil || st.Succeeded() || len(st.Records) != 0 {
		t.Fatalf("got %+v, %v", st, err)
	}
}

func TestRequestArtifactLink(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathArtifactLink {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, map[string]any{"status": "success", "data": map[string]any{"download_url": "https://files/p.json", "filename": "p.json"}})
	}, 0)
	link, err := c.RequestArtifactLink(context.Background(), []string{"u1"}, "req")
	if err != nil || link.DownloadURL != "https://files/p.json" || link.Filename != "p.json" {
		t.Fatalf("link = %+v, %v", link, err)
	}
}

func TestSubmitVerification_MultipartUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-report-required") != "true" {
			t.Errorf("x-report-required missing")
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		if hdr.Filename != proofUploadName || hdr.Header.Get("Content-Type") != "application/json" {
			t.Errorf("bad part header %+v", hdr.Header)
		}
		raw, _ := io.ReadAll(f)
		var items []ProofItem
		if err := json.Unmarshal(raw, &items); err != nil || len(items) != 1 || items[0].Root != "r" {
			t.Errorf("bad upload %s", raw)
		}
		writeJSON(w, map[string]any{"response": map[string]any{"data": map[string]any{"result": "full match"}}})
	}, 0)

	rep, err := c.SubmitVerification(context.Background(), []ProofItem{{Proof: "p", Root: "r", Address: "a", Data: "d"}}, "req")
	if err != nil {
		t.Fatalf("SubmitVerification: %v", err)
	}
	if !strings.Contains(string(rep), "full match") {
		t.Fatalf("report = %s", rep)
	}
}

func TestRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{"status": "success", "data": map[string]any{"uid": "u"}})
	}, 2)

	if _, err := c.SubmitHash(context.Background(), "h", "r"); err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   perr.ErrorCode
	}{
		{http.StatusBadRequest, perr.ErrorCodeInvalidArgument},
		{http.StatusUnprocessableEntity, perr.ErrorCodeInvalidArgument},
		{http.StatusUnauthorized, perr.ErrorCodeUnauthorized},
		{http.StatusForbidden, perr.ErrorCodeUnauthorized},
		{http.StatusNotFound, perr.ErrorCodeNotFound},
		{http.StatusTooManyRequests, perr.ErrorCodeTooManyRequests},
		{http.StatusGatewayTimeout, perr.ErrorCodeTimeout},
		{http.StatusInternalServerError, perr.ErrorCodeUnavailable},
		{http.StatusTeapot, perr.ErrorCodeUpstream},
	}
	for _, tc := range cases {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			http.Error(w, "nope", tc.status)
		}, 0)
		_, err := c.SubmitHash(context.Background(), "h", "r")
		if got := perr.CodeOf(err); got != tc.want {
			t.Fatalf("status %d: code = %v, want %v (%v)", tc.status, got, tc.want, err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.HTTPStatus() != tc.status {
			t.Fatalf("status %d: expected StatusError, got %T", tc.status, err)
		}
		if calls.Load() != 1 {
			t.Fatalf("status %d: calls = %d with retries disabled", tc.status, calls.Load())
		}
	}
}

func TestContextCancelledIsTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"status": "success"})
	}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SubmitHash(ctx, "h", "r")
	if !perr.IsCode(err, perr.ErrorCodeTimeout) {
		t.Fatalf("want timeout, got %v", err)
	}
}

func TestBackoffCapped(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://x", RetryBase: time.Second})
	if c.backoff(0) != time.Second || c.backoff(2) != 4*time.Second {
		t.Fatalf("unexpected backoff progression")
	}
	if c.backoff(10) != maxBackoff {
		t.Fatalf("backoff not capped: %v", c.backoff(10))
	}
}

func TestPing(t *testing.T) {
	cases := []struct {
		name   string
		status int
		ok     bool
	}{
		{"not found is reachable", http.StatusNotFound, true},
		{"ok", http.StatusOK, true},
		{"server error", http.StatusServiceUnavailable, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Fatalf("method %s", r.Method)
				}
				w.WriteHeader(tc.status)
			}, 0)
			err := c.Ping(context.Background())
			if (err == nil) != tc.ok {
				t.Fatalf("Ping err=%v want ok=%v", err, tc.ok)
			}
			if err != nil && !perr.IsCode(err, perr.ErrorCodeUnavailable) {
				t.Fatalf("want unavailable got %v", err)
			}
		})
	}
}

func TestPingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := NewClient(Options{BaseURL: url})
	if err := c.Ping(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable got %v", err)
	}
}
