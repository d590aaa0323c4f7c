package proof

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime"
	"strings"
	"unicode/utf8"

	perr "notary/internal/platform/errors"
)

// Attachment is an uploaded file as received from the chat transport
type Attachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
}

// Decode applies the content policy shared by validation and parsing:
// strict base64 first, then the bytes as they are
func Decode(content []byte) []byte {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return content
	}
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(trimmed)))
	if n, err := base64.StdEncoding.Strict().Decode(buf, trimmed); err == nil {
		return buf[:n]
	}
	return content
}

// JSONType reports whether a declared content type can carry JSON
func JSONType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mt {
	case "application/json", "text/json", "application/x-json":
		return true
	}
	return strings.HasSuffix(mt, "+json")
}

// IsProofFile reports whether a holds a JSON sequence whose first element
// carries the four bundle fields as strings. It never fails loudly
func IsProofFile(a Attachment) bool {
	if !JSONType(a.MimeType) {
		return false
	}
	_, err := first(a.Content)
	return err == nil
}

// ParseProofFile projects the first element of a proof file onto a Bundle.
// Only the four bundle fields are kept; other keys are dropped
func ParseProofFile(a Attachment) (Bundle, error) {
	m, err := first(a.Content)
	if err != nil {
		return Bundle{}, err
	}
	return FromMap(m), nil
}

// first decodes content and returns the validated first element
func first(content []byte) (map[string]any, error) {
	raw := Decode(content)
	if !utf8.Valid(raw) {
		return nil, perr.InvalidArgf("proof file is not text")
	}
	var seq []json.RawMessage
	if err := json.Unmarshal(raw, &seq); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "proof file is not a JSON array")
	}
	if len(seq) == 0 {
		return nil, perr.InvalidArgf("proof file is empty")
	}
	var head map[string]any
	if err := json.Unmarshal(seq[0], &head); err != nil || head == nil {
		return nil, perr.InvalidArgf("first proof entry is not an object")
	}
	for _, f := range Fields {
		if _, ok := head[f].(string); !ok {
			return nil, perr.WithField(perr.InvalidArgf("first proof entry lacks '%s'", f), f)
		}
	}
	return head, nil
}

// Load reads the first bundle from either a proof file or an export document
func Load(content []byte) (Bundle, error) {
	b, err := ParseProofFile(Attachment{Content: content})
	if err == nil {
		return b, nil
	}
	var doc ExportDocument
	if jerr := json.Unmarshal(Decode(content), &doc); jerr != nil || len(doc.Proofs) == 0 {
		return Bundle{}, err
	}
	if verr := doc.Proofs[0].Validate(); verr != nil {
		return Bundle{}, verr
	}
	return doc.Proofs[0], nil
}
