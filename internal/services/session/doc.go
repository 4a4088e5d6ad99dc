// Package session binds one transport to one ratchet.
//
// It performs the public-value exchange that opens a link, turns plaintext
// into framed envelopes and back, and reports what happened to the logger
// and the metrics. The chat client uses one Link; the onion relay uses two
// that share an initial key pair.
package session
