package ledger

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	perr "notary/internal/platform/errors"
)

// StatusError wraps non-2xx responses from the ledger
type StatusError struct {
	Status int
	Body   string
	Err    error
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// statusError reads a short diagnostic tail, closes the body and classifies the status
func statusError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_ = resp.Body.Close()
	tail := strings.TrimSpace(string(body))
	return &StatusError{
		Status: resp.StatusCode,
		Body:   tail,
		Err:    perr.Newf(perr.CodeForStatus(resp.StatusCode), "ledger %s status %d: %s", path, resp.StatusCode, tail),
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
