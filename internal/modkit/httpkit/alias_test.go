package httpkit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "notary/internal/platform/errors"
)

func run(t *testing.T, h Handler, body io.Reader) (int, Envelope) {
	t.Helper()
	method := http.MethodGet
	if body != nil {
		method = http.MethodPost
	}
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(method, "/x", body))

	var env Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func TestCall(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(*http.Request) (any, error)
		status int
		code   perr.ErrorCode
	}{
		{"value", func(*http.Request) (any, error) { return map[string]string{"a": "1"}, nil }, http.StatusOK, 0},
		{"response", func(*http.Request) (any, error) { return Accepted("queued"), nil }, http.StatusAccepted, 0},
		{"no content", func(*http.Request) (any, error) { return NoContent(), nil }, http.StatusNoContent, 0},
		{"project error", func(*http.Request) (any, error) { return nil, perr.Unavailablef("queue full") }, http.StatusServiceUnavailable, perr.ErrorCodeUnavailable},
		{"foreign error", func(*http.Request) (any, error) { return nil, errors.New("nah") }, http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := run(t, Call(tt.fn), nil)
			if code != tt.status {
				t.Fatalf("status %d want %d", code, tt.status)
			}
			if env.Code != tt.code {
				t.Fatalf("code %v want %v", env.Code, tt.code)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	type inbound struct {
		Sender string `json:"sender" validate:"required"`
		Text   string `json:"text"   validate:"required"`
	}
	echo := func(_ *http.Request, in inbound) (any, error) {
		return Accepted(map[string]string{"sender": in.Sender}), nil
	}
	tests := []struct {
		name   string
		body   string
		status int
		code   perr.ErrorCode
	}{
		{"accepted", `{"sender":"s1","text":"stamp it"}`, http.StatusAccepted, 0},
		{"malformed", `{`, http.StatusBadRequest, perr.ErrorCodeJSON},
		{"unknown field", `{"sender":"s1","text":"x","b":2}`, http.StatusBadRequest, perr.ErrorCodeJSON},
		{"empty text", `{"sender":"s1","text":""}`, http.StatusBadRequest, perr.ErrorCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := run(t, JSON(echo), strings.NewReader(tt.body))
			if code != tt.status || env.Code != tt.code {
				t.Fatalf("got %d/%v want %d/%v (%+v)", code, env.Code, tt.status, tt.code, env)
			}
		})
	}
}

func TestJSON_HandlerErrorAndField(t *testing.T) {
	type inbound struct {
		Text string `json:"text" validate:"required"`
	}
	code, env := run(t, JSON(func(*http.Request, inbound) (any, error) {
		t.Fatal("handler should not run")
		return nil, nil
	}), strings.NewReader(`{"text":""}`))
	if code != http.StatusBadRequest || !strings.Contains(env.Error, "text") {
		t.Fatalf("got %d %+v", code, env)
	}

	code, _ = run(t, JSON(func(*http.Request, inbound) (any, error) {
		return nil, perr.Upstreamf("ledger down")
	}), strings.NewReader(`{"text":"x"}`))
	if code != http.StatusBadGateway {
		t.Fatalf("status %d", code)
	}
}
