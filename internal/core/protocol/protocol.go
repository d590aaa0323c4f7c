// Package protocol defines the request, response and error vocabulary shared by
// the orchestrators and the agent-to-agent RPC surface
package protocol

import (
	"encoding/json"

	"notary/internal/core/proof"
	perr "notary/internal/platform/errors"
)

// Code is the wire error taxonomy
type Code string

const (
	// CodeBadRequest is for malformed or missing caller input detected locally
	CodeBadRequest Code = "BAD_REQUEST"

	// CodeUnauthorized is for upstream-reported access failures
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeNotFound is for upstream-reported lookup failures
	CodeNotFound Code = "NOT_FOUND"

	// CodeTimeout is for upstream calls or correlated replies that ran out of budget
	CodeTimeout Code = "TIMEOUT"

	// CodeInternal is for everything else
	CodeInternal Code = "INTERNAL"
)

// Error is the error body carried by a failed Response
type Error struct {
	Code    Code   `json:"code"    example:"BAD_REQUEST"`
	Message string `json:"message" example:"Invalid hash"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return string(e.Code) + ": " + e.Message
}

// CodeFor maps a project error onto the wire taxonomy
func CodeFor(err error) Code {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeInvalidArgument, perr.ErrorCodeValidation, perr.ErrorCodeJSON:
		return CodeBadRequest
	case perr.ErrorCodeUnauthorized, perr.ErrorCodeForbidden:
		return CodeUnauthorized
	case perr.ErrorCodeNotFound:
		return CodeNotFound
	case perr.ErrorCodeTimeout:
		return CodeTimeout
	default:
		return CodeInternal
	}
}

// ErrorFrom builds a wire error from err, nil when err is nil
// the message is the developer facing message without the wrapped cause
func ErrorFrom(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: CodeFor(err), Message: perr.WireFrom(err).Message}
}

// Request carries the correlation key of a command
type Request struct {
	RequestID string `json:"request_id" example:"rpc-5f0c6a4e"`
}

// SetRequestID stamps the correlation key; promoted to every command type
func (r *Request) SetRequestID(id string) { r.RequestID = id }

// Response carries the correlation key and outcome of a command
type Response struct {
	RequestID string `json:"request_id" example:"rpc-5f0c6a4e"`
	OK        bool   `json:"ok"         example:"true"`
	Error     *Error `json:"error,omitempty"`
}

// Fail marks the response as failed with code and message
func (r *Response) Fail(code Code, msg string) {
	r.OK = false
	r.Error = &Error{Code: code, Message: msg}
}

// Err returns the carried error, nil for successful responses
func (r Response) Err() error {
	if r.OK {
		return nil
	}
	if r.Error == nil {
		return &Error{Code: CodeInternal, Message: "request failed"}
	}
	return r.Error
}

// MinHashLen is the shortest value accepted as a hash
const MinHashLen = 32

// ValidHash reports whether h is printable ASCII of at least MinHashLen bytes.
// The StampHashRequest tag states the same rule for the validator
func ValidHash(h string) bool {
	if len(h) < MinHashLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		if h[i] < 0x20 || h[i] > 0x7e {
			return false
		}
	}
	return true
}

// StampHashRequest asks the provider to submit a hash for stamping
type StampHashRequest struct {
	Request
	Hash string `json:"hash" validate:"min=32,printascii" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
}

// StampHashResponse returns the stamping handle
type StampHashResponse struct {
	Response
	UID string `json:"uid,omitempty" example:"0x6d1a9fd2c8e14b0f8a7e"`
}

// UidRequest asks the provider for the confirmation state of a stamping handle
type UidRequest struct {
	Request
	UID string `json:"uid" validate:"min=20" example:"0x6d1a9fd2c8e14b0f8a7e"`
}

// UidResponse carries the proof fields once the handle is on chain
type UidResponse struct {
	Response
	Onchain bool   `json:"onchain"`
	Proof   string `json:"proof,omitempty"`
	Root    string `json:"root,omitempty"`
	Address string `json:"address,omitempty"`
	Data    string `json:"data,omitempty"`
}

// VerifyProofRequest asks the provider to verify a proof bundle
type VerifyProofRequest struct {
	Request
	Proof   string `json:"proof"   validate:"required"`
	Root    string `json:"root"    validate:"required"`
	Address string `json:"address" validate:"required"`
	Data    string `json:"data"    validate:"required"`
}

// Bundle returns the proof fields as a bundle
func (r VerifyProofRequest) Bundle() proof.Bundle {
	return proof.Bundle{Proof: r.Proof, Root: r.Root, Address: r.Address, Data: r.Data}
}

// VerifyProofResponse carries the raw upstream verification report
type VerifyProofResponse struct {
	Response
	Report json.RawMessage `json:"report,omitempty" swaggertype:"object"`
}
