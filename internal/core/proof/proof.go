// Package proof models the four field proof bundle and the uploaded proof file
// format built from it
package proof

import (
	"time"

	perr "notary/internal/platform/errors"
)

// Field names of a bundle, in the order they are reported when missing
const (
	FieldProof   = "proof"
	FieldRoot    = "root"
	FieldAddress = "address"
	FieldData    = "data"
)

// Fields lists the required keys
var Fields = []string{FieldProof, FieldRoot, FieldAddress, FieldData}

// Bundle is the evidence that a hash is anchored on chain
type Bundle struct {
	Proof   string `json:"proof"`
	Root    string `json:"root"`
	Address string `json:"address"`
	Data    string `json:"data"`
}

// Get returns the value of a named field
func (b Bundle) Get(field string) string {
	switch field {
	case FieldProof:
		return b.Proof
	case FieldRoot:
		return b.Root
	case FieldAddress:
		return b.Address
	case FieldData:
		return b.Data
	}
	return ""
}

// Missing lists the empty fields
func (b Bundle) Missing() []string {
	var out []string
	for _, f := range Fields {
		if b.Get(f) == "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate returns an invalid argument error naming the first empty field
func (b Bundle) Validate() error {
	if m := b.Missing(); len(m) > 0 {
		return perr.WithField(perr.InvalidArgf("Missing '%s'", m[0]), m[0])
	}
	return nil
}

// IsZero reports whether every field is empty
func (b Bundle) IsZero() bool { return b == Bundle{} }

// FromMap builds a bundle from a loosely typed payload
// non-string values are treated as missing
func FromMap(m map[string]any) Bundle {
	str := func(k string) string {
		s, _ := m[k].(string)
		return s
	}
	return Bundle{
		Proof:   str(FieldProof),
		Root:    str(FieldRoot),
		Address: str(FieldAddress),
		Data:    str(FieldData),
	}
}

// ExportVersion is the version written into export documents
const ExportVersion = "1.0"

// ExportMetadata describes an export document
type ExportMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	ProofCount int       `json:"proof_count"`
	Version    string    `json:"version"`
}

// ExportDocument is the file format handed back to users for later verification
type ExportDocument struct {
	Metadata ExportMetadata `json:"metadata"`
	Proofs   []Bundle       `json:"proofs"`
}

// Export wraps bundles in an export document stamped with now
func Export(now time.Time, bundles ...Bundle) ExportDocument {
	if bundles == nil {
		bundles = []Bundle{}
	}
	return ExportDocument{
		Metadata: ExportMetadata{
			CreatedAt:  now.UTC(),
			ProofCount: len(bundles),
			Version:    ExportVersion,
		},
		Proofs: bundles,
	}
}
