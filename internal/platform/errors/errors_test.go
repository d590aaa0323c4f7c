package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeStatusAndName(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		name   string
		status int
	}{
		{ErrorCodeNotFound, "not_found", http.StatusNotFound},
		{ErrorCodeInvalidArgument, "invalid_argument", http.StatusUnprocessableEntity},
		{ErrorCodeJSON, "json", http.StatusBadRequest},
		{ErrorCodeUnauthorized, "unauthorized", http.StatusUnauthorized},
		{ErrorCodeUnavailable, "unavailable", http.StatusServiceUnavailable},
		{ErrorCodeTimeout, "timeout", http.StatusGatewayTimeout},
		{ErrorCodeUpstream, "upstream", http.StatusBadGateway},
		{ErrorCodePanic, "panic", http.StatusInternalServerError},
		{999, "code(999)", http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.name {
			t.Fatalf("String(%d) = %q, want %q", c.code, got, c.name)
		}
		if got := c.code.HTTPStatus(); got != c.status {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", c.code, got, c.status)
		}
	}
}

func TestWrapChain(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	cause := stderrs.New("connection refused")
	err := fmt.Errorf("poll: %w", Wrapf(cause, ErrorCodeUnavailable, "ledger %s failed", "/v1/timestamp/status"))

	if got := CodeOf(err); got != ErrorCodeUnavailable {
		t.Fatalf("CodeOf = %s", got)
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus = %d", HTTPStatus(err))
	}
	if Root(err) != cause {
		t.Fatalf("Root = %v", Root(err))
	}
	if Root(nil) != nil {
		t.Fatalf("Root(nil) should be nil")
	}
	if got := err.Error(); got != "poll: ledger /v1/timestamp/status failed: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
	if CodeOf(cause) != ErrorCodeUnknown || IsCode(nil, ErrorCodeTimeout) {
		t.Fatalf("foreign or nil errors should be Unknown")
	}
}

func TestSugarConstructors(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{InvalidArgf("hash %q too short", "ab"), ErrorCodeInvalidArgument},
		{NotFoundf("uid %s", "u1"), ErrorCodeNotFound},
		{Unauthorizedf("bad key"), ErrorCodeUnauthorized},
		{Forbiddenf("no"), ErrorCodeForbidden},
		{Unavailablef("down"), ErrorCodeUnavailable},
		{Timeoutf("late"), ErrorCodeTimeout},
		{Upstreamf("odd reply"), ErrorCodeUpstream},
		{JSONErrf("bad body"), ErrorCodeJSON},
		{PanicErrf("boom"), ErrorCodePanic},
		{New(ErrorCodeValidation, "invalid"), ErrorCodeValidation},
	}
	for _, c := range cases {
		if !IsCode(c.err, c.code) {
			t.Fatalf("%v: code %s, want %s", c.err, CodeOf(c.err), c.code)
		}
	}
	if got := InvalidArgf("hash %q too short", "ab").Error(); got != `hash "ab" too short` {
		t.Fatalf("message = %q", got)
	}
}

func TestWithFieldAndWire(t *testing.T) {
	base := InvalidArgf("missing")
	withField := WithField(base, "root")
	if e, _ := As(withField); e.Field() != "root" {
		t.Fatalf("field not set")
	}
	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("WithField mutated the original")
	}
	foreign := stderrs.New("x")
	if WithField(foreign, "root") != foreign {
		t.Fatalf("foreign errors pass through")
	}

	w := WireFrom(withField)
	if w.Code != ErrorCodeInvalidArgument || w.Message != "missing" || w.Field != "root" {
		t.Fatalf("wire = %+v", w)
	}
	if w := WireFrom(foreign); w.Code != ErrorCodeUnknown || w.Message != "x" {
		t.Fatalf("foreign wire = %+v", w)
	}
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(nil, "x") != nil {
		t.Fatalf("FromContext(nil) should be nil")
	}
	if !IsCode(FromContext(context.DeadlineExceeded, "late"), ErrorCodeTimeout) {
		t.Fatalf("deadline should map to timeout")
	}
	if !IsCode(FromContext(fmt.Errorf("wrapped: %w", context.Canceled), "gone"), ErrorCodeTimeout) {
		t.Fatalf("wrapped cancellation should map to timeout")
	}
	src := stderrs.New("boom")
	if got := FromContext(src, "x"); got != src {
		t.Fatalf("foreign error should pass through, got %v", got)
	}
}

func TestCodeForStatus(t *testing.T) {
	cases := map[int]ErrorCode{
		400: ErrorCodeInvalidArgument,
		422: ErrorCodeInvalidArgument,
		401: ErrorCodeUnauthorized,
		403: ErrorCodeUnauthorized,
		404: ErrorCodeNotFound,
		408: ErrorCodeTimeout,
		504: ErrorCodeTimeout,
		429: ErrorCodeTooManyRequests,
		500: ErrorCodeUnavailable,
		503: ErrorCodeUnavailable,
		418: ErrorCodeUpstream,
		302: ErrorCodeUpstream,
	}
	for status, want := range cases {
		if got := CodeForStatus(status); got != want {
			t.Fatalf("CodeForStatus(%d) = %d, want %d", status, got, want)
		}
	}
}
