package httpkit

import (
	"errors"
	"net/http"
	"testing"

	perrs "notary/internal/platform/errors"
)

func TestPort_Parse_MissingHeader(t *testing.T) {
	t.Parallel()

	p := NewPortFunc(func(string) (string, error) {
		t.Fatalf("parser should not be called when header is missing")
		return "", nil
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	caller, err := p.Parse(req)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if caller != "" {
		t.Fatalf("expected empty caller, got %q", caller)
	}

	var pe *perrs.Error
	if !errors.As(err, &pe) || pe.Code() != perrs.ErrorCodeUnauthorized {
		t.Fatalf("expected unauthorized perrs error, got %#v", err)
	}
}

func TestPort_Parse_WrongSchemeAndEmptyToken(t *testing.T) {
	t.Parallel()

	p := NewPortFunc(func(string) (string, error) {
		t.Fatalf("parser should not be called on malformed header")
		return "", nil
	})

	for _, h := range []string{"Basic abc", "Bearer   \t "} {
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", h)
		if _, err := p.Parse(req); err == nil {
			t.Fatalf("expected error for %q", h)
		}
	}
}

func TestPort_Parse_InvalidToken(t *testing.T) {
	t.Parallel()

	calls := 0
	p := NewPortFunc(func(tok string) (string, error) {
		calls++
		if tok != "bad.token" {
			t.Fatalf("expected raw token bad.token, got %q", tok)
		}
		return "", errors.New("parse failed")
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad.token")

	caller, err := p.Parse(req)
	if !perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if caller != "" {
		t.Fatalf("expected empty caller on invalid token, got %q", caller)
	}
	if calls != 1 {
		t.Fatalf("expected parser called once, got %d", calls)
	}
}

func TestPort_Parse_ValidToken_CaseInsensitive(t *testing.T) {
	t.Parallel()

	p := NewPortFunc(func(tok string) (string, error) {
		if tok != "abc123" {
			t.Fatalf("expected trimmed token abc123, got %q", tok)
		}
		return "client-1", nil
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "BEARER   abc123   ")

	caller, err := p.Parse(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller != "client-1" {
		t.Fatalf("unexpected caller %q", caller)
	}
}

func TestPort_Parse_NilParser(t *testing.T) {
	t.Parallel()

	var p Port

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")

	if _, err := p.Parse(req); err == nil {
		t.Fatalf("expected error when parser is nil")
	}
}
