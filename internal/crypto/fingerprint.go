package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSize is the SHA-256 digest size.
const HashSize = sha256.Size

// Hash returns the SHA-256 digest of b.
func Hash(b []byte) [HashSize]byte {
	return sha256.Sum256(b)
}

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) string {
	sum := Hash(pub)
	return hex.EncodeToString(sum[:10])
}
