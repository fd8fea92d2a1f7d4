// Package cryptox computes the content digests recorded for downloaded
// documents.
package cryptox

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Algorithm prefixes every digest produced by Digest.
const Algorithm = "blake2b-256"

// Digest returns "blake2b-256:<hex>" for data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return Algorithm + ":" + hex.EncodeToString(sum[:])
}
