// Package errors is the coded error type shared by every layer. Import it as perr
package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for callers and for HTTP mapping; values are
// part of the wire format and only ever appended
type ErrorCode uint16

const (
	// ErrorCodeUnknown is anything unclassified
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic is a panic recovered at a boundary
	ErrorCodePanic
	// ErrorCodeUnavailable is a transient failure of a dependency
	ErrorCodeUnavailable
	// ErrorCodeTooManyRequests is upstream rate limiting
	ErrorCodeTooManyRequests
	// ErrorCodeUnauthorized is a missing or rejected credential
	ErrorCodeUnauthorized
	// ErrorCodeForbidden is a credential without access
	ErrorCodeForbidden
	// ErrorCodeInvalidArgument is bad caller input
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a struct that failed validation tags
	ErrorCodeValidation
	// ErrorCodeJSON is a payload that would not encode or decode
	ErrorCodeJSON
	// ErrorCodeNotFound is an unknown handle or route
	ErrorCodeNotFound
	// ErrorCodeTimeout is a call or correlated reply that ran out of time
	ErrorCodeTimeout
	// ErrorCodeUpstream is an upstream reply with an unexpected shape
	ErrorCodeUpstream
)

var codeInfo = map[ErrorCode]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:       {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeTimeout:         {"timeout", http.StatusGatewayTimeout},
	ErrorCodeUpstream:        {"upstream", http.StatusBadGateway},
}

// String is the snake_case name used in logs
func (c ErrorCode) String() string {
	if i, ok := codeInfo[c]; ok {
		return i.name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatus maps the code onto a response status; unknown codes are 500
func (c ErrorCode) HTTPStatus() int {
	if i, ok := codeInfo[c]; ok {
		return i.status
	}
	return http.StatusInternalServerError
}

// Error carries a code, a message, an optional offending field and the cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the JSON form of an error in HTTP envelopes
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// WireFrom renders any error for a response body; foreign errors become Unknown
// and nil becomes the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As returns the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Root returns the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// CodeOf returns err's code, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the response status for any error
func HTTPStatus(err error) int { return CodeOf(err).HTTPStatus() }

// WithField returns a copy of err naming the offending field; foreign errors
// are returned unchanged
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// New returns an error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns an error with code and a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an error with code and msg caused by orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns an error with code and a formatted message caused by orig
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

func sugar(code ErrorCode) func(format string, a ...any) error {
	return func(format string, a ...any) error { return Newf(code, format, a...) }
}

// Formatted constructors per code
var (
	InvalidArgf   = sugar(ErrorCodeInvalidArgument)
	NotFoundf     = sugar(ErrorCodeNotFound)
	Unauthorizedf = sugar(ErrorCodeUnauthorized)
	Forbiddenf    = sugar(ErrorCodeForbidden)
	Unavailablef  = sugar(ErrorCodeUnavailable)
	Timeoutf      = sugar(ErrorCodeTimeout)
	Upstreamf     = sugar(ErrorCodeUpstream)
	JSONErrf      = sugar(ErrorCodeJSON)
	PanicErrf     = sugar(ErrorCodePanic)
)

// FromContext turns a deadline or cancellation into a Timeout; the caller
// stopped waiting either way. Other errors pass through
func FromContext(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
		return Wrap(err, ErrorCodeTimeout, msg)
	}
	return err
}

// CodeForStatus classifies an upstream HTTP status; anything without a closer
// match is Upstream
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrorCodeInvalidArgument
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorCodeUnauthorized
	case status == http.StatusNotFound:
		return ErrorCodeNotFound
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrorCodeTimeout
	case status == http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case status >= 500:
		return ErrorCodeUnavailable
	default:
		return ErrorCodeUpstream
	}
}
