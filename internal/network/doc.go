// Package network provides the framed point-to-point links pqchat runs over.
//
// A frame is an 8-byte little-endian length followed by that many bytes. Conn
// carries frames over TCP; Pipe returns an in-memory pair with the same
// semantics for tests. Both implement domain.Transport.
package network
