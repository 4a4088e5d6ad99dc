package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// MACSize is the HMAC-SHA256 tag size.
const MACSize = sha256.Size

// HMACGenerate returns the HMAC-SHA256 tag of msg under key.
func HMACGenerate(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

// HMACVerify reports whether tag is the HMAC of msg under key.
func HMACVerify(key, msg, tag []byte) bool {
	return hmac.Equal(HMACGenerate(key, msg), tag)
}
