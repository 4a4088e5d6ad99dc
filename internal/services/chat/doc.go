// Package chat runs a two-party conversation over one link.
//
// Run performs the handshake, then pumps operator input lines out through the
// ratchet and prints whatever the peer sends. Either side hanging up, the
// input ending, or a failed MAC ends the session.
package chat
