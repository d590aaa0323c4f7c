package protocol

import (
	"encoding/json"
	"time"

	perr "notary/internal/platform/errors"
)

// Kind names the command or reply carried by a Message
type Kind string

const (
	// KindHello announces the sender name when a link opens
	KindHello Kind = "hello"

	// KindStampHash carries a StampHashRequest
	KindStampHash Kind = "stamp_hash"
	// KindStampHashResult carries a StampHashResponse
	KindStampHashResult Kind = "stamp_hash.result"

	// KindUid carries a UidRequest
	KindUid Kind = "uid_status"
	// KindUidResult carries a UidResponse
	KindUidResult Kind = "uid_status.result"

	// KindVerifyProof carries a VerifyProofRequest
	KindVerifyProof Kind = "verify_proof"
	// KindVerifyProofResult carries a VerifyProofResponse
	KindVerifyProofResult Kind = "verify_proof.result"
)

const replySuffix = ".result"

// Reply returns the reply kind for a command kind
func (k Kind) Reply() Kind {
	if k.IsReply() {
		return k
	}
	return k + replySuffix
}

// IsReply reports whether k is a reply kind
func (k Kind) IsReply() bool {
	n := len(replySuffix)
	return len(k) > n && string(k[len(k)-n:]) == replySuffix
}

// Command is any request type; the correlator stamps the id before sending
type Command interface {
	SetRequestID(id string)
}

// Message is the transport envelope exchanged between agents
type Message struct {
	Kind      Kind            `json:"kind"`
	RequestID string          `json:"request_id,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage encodes payload into a Message of the given kind
func NewMessage(kind Kind, requestID string, payload any) (Message, error) {
	m := Message{Kind: kind, RequestID: requestID, Timestamp: time.Now().Unix()}
	if payload == nil {
		return m, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, perr.Wrapf(err, perr.ErrorCodeJSON, "encode %s payload", kind)
	}
	m.Payload = b
	return m, nil
}

// Decode unmarshals the payload into v
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return perr.JSONErrf("%s message has no payload", m.Kind)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "decode %s payload", m.Kind)
	}
	return nil
}

// Failure synthesizes a failed reply for requestID
func Failure(kind Kind, requestID string, code Code, msg string) Message {
	resp := Response{RequestID: requestID}
	resp.Fail(code, msg)
	m, _ := NewMessage(kind.Reply(), requestID, resp)
	return m
}
