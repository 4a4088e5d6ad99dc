// Package onion implements a two-link relay.
//
// The relay sits between an in-link and an out-link and runs an independent
// ratchet on each. Every message is decrypted with one link's ratchet and
// re-encrypted with the other's, so the two ciphertexts of one message share
// nothing. Both links start from the same key pair; they diverge on the first
// rotation.
//
// Forwarding uses one reader and one writer per direction joined by a
// bounded channel. Order is kept within a direction and a quiet link never
// holds up the other one.
package onion
