// Package wire implements the binary framing used between pqchat peers.
//
// Every message starts with a one-byte tag followed by its fields in a fixed
// order. Each field is a length-prefixed byte string: an 8-byte little-endian
// unsigned length and then the raw bytes. Integers travel as their base-10
// decimal representation framed the same way.
//
// Message kinds
//
//	tag 0  HandshakeParams  p, q, g              (legacy classical DH)
//	tag 1  PublicValue      value
//	tag 2  Envelope         iv, sender public value, ciphertext, mac,
//	                        kem ciphertext
//
// Decoding is positional. Beyond the tag and the per-field lengths nothing is
// self-describing, so callers pick the decoder with MessageTypeOf first.
//
// No cryptography happens here.
package wire
