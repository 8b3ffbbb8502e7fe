package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentDigest returns the hex BLAKE2b-256 digest of b.
func ContentDigest(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}
