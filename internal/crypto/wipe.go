package crypto

import "pqchat/internal/util/memzero"

// Wipe zeroes key material in place.
func Wipe(bufs ...[]byte) {
	memzero.ZeroAll(bufs...)
}
