package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// AESKeySize is the AES-128 key size.
	AESKeySize = 16
	// HMACKeySize is the HMAC-SHA256 key size.
	HMACKeySize = 32
)

var (
	aesSalt  = []byte("salt0000")
	hmacSalt = []byte("salt0001")
)

// DeriveAESKey derives the AES key from a shared secret.
func DeriveAESKey(sharedSecret []byte) []byte {
	return hkdfSHA256(sharedSecret, aesSalt, AESKeySize)
}

// DeriveHMACKey derives the HMAC key from the same shared secret. The salt
// differs from DeriveAESKey's so the two outputs are independent.
func DeriveHMACKey(sharedSecret []byte) []byte {
	return hkdfSHA256(sharedSecret, hmacSalt, HMACKeySize)
}

func hkdfSHA256(secret, salt []byte, n int) []byte {
	r := hkdf.New(sha256.New, secret, salt, nil)
	out := make([]byte, n)
	// HKDF-SHA256 can produce up to 255*32 bytes; n is far below that.
	_, _ = io.ReadFull(r, out)
	return out
}
