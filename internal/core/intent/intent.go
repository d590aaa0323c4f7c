// Package intent turns label-prefixed classifier output into a structured command
package intent

import (
	"encoding/json"
	"strings"

	"notary/internal/core/normalize"
	"notary/internal/core/proof"
)

// Kind is the command family
type Kind string

// Command families understood by the router
const (
	StampHash       Kind = "STAMP_HASH"
	VerifyProof     Kind = "VERIFY_PROOF"
	VerifyProofFile Kind = "VERIFY_PROOF_FILE"
	HashFile        Kind = "HASH_FILE"
	StampFile       Kind = "STAMP_FILE"
	General         Kind = "GENERAL"
)

// Payload keys
const (
	KeyHash  = "hash"
	KeyRaw   = "_raw"
	KeyError = "_error"
)

// labelled kinds in match order
var labelled = []Kind{StampHash, HashFile, StampFile, VerifyProofFile, VerifyProof}

// Intent is the tagged command derived from one inbound message
type Intent struct {
	Kind    Kind
	Payload map[string]any
	Raw     string // classifier text, unmodified
}

// Parse converts classifier output into an Intent; unknown labels are General
func Parse(label string) Intent {
	s := Normalize(label)
	for _, k := range labelled {
		prefix := string(k) + ":"
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		arg := strings.TrimSpace(s[len(prefix):])
		return Intent{Kind: k, Payload: payloadFor(k, arg), Raw: label}
	}
	return Intent{Kind: General, Payload: map[string]any{}, Raw: label}
}

func payloadFor(k Kind, arg string) map[string]any {
	switch k {
	case StampHash:
		return map[string]any{KeyHash: firstField(arg)}
	case VerifyProof:
		body := stripFence(arg)
		var m map[string]any
		if err := json.Unmarshal([]byte(body), &m); err != nil || m == nil {
			return map[string]any{KeyRaw: body, KeyError: "invalid JSON from classifier"}
		}
		return m
	}
	return map[string]any{}
}

// Hash returns the hash argument of a StampHash intent
func (i Intent) Hash() string {
	s, _ := i.Payload[KeyHash].(string)
	return s
}

// Malformed reports whether the classifier argument failed to parse
func (i Intent) Malformed() bool {
	_, bad := i.Payload[KeyError]
	return bad
}

// Bundle extracts proof fields from a VerifyProof payload with the missing keys
func (i Intent) Bundle() (proof.Bundle, []string) {
	b := proof.FromMap(i.Payload)
	return b, b.Missing()
}

// Normalize cleans s so label prefixes and hashes match regardless of how the
// text was composed or pasted
func Normalize(s string) string { return normalize.Text(s) }

// firstField keeps the first whitespace separated token
func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return strings.Trim(f[0], "`\"'")
	}
	return ""
}

// stripFence removes a surrounding markdown code fence
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
