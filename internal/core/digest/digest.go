// Package digest computes the content hashes submitted for stamping
package digest

import (
	"encoding/hex"
	"io"

	perr "notary/internal/platform/errors"

	"golang.org/x/crypto/sha3"
)

// Size is the hex length of a digest
const Size = 64

// Bytes returns the hex SHA3-256 digest of b
func Bytes(b []byte) string {
	sum := sha3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Reader streams r into a SHA3-256 digest
func Reader(r io.Reader) (string, error) {
	h := sha3.New256()
	if _, err := io.Copy(h, r); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "hash content")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
