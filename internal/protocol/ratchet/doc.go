// Package ratchet implements the per-direction asymmetric key ratchet.
//
// Each side holds its current KEM key pair, the peer's last recorded public
// value and one AES/HMAC key pair derived from the latest shared secret. A
// side rotates at most once per turn: the first send after receiving from the
// peer generates a new key pair, encapsulates a fresh secret to the peer's
// recorded public value and attaches the KEM ciphertext. The receiver
// decapsulates with its own current private key and adopts the sender's new
// public value. Later sends in the same turn reuse the keys and carry a
// one-byte placeholder instead.
//
// A MAC failure leaves the state exactly as it was.
//
// Concurrency: State is NOT safe for concurrent use. Wrap it in a Locked when
// more than one goroutine touches a conversation.
package ratchet
