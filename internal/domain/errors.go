package domain

import "errors"

var (
	// ErrTransportClosed is returned by a Transport once the peer hung up or
	// the link was disconnected locally. Loops treat it as a clean shutdown.
	ErrTransportClosed = errors.New("transport closed")

	// ErrAuthentication is returned when a data message fails its MAC check.
	// The session must not continue after it.
	ErrAuthentication = errors.New("message authentication failed")

	// ErrBadPublicValue is returned when a handshake public value has the
	// wrong size for the negotiated KEM.
	ErrBadPublicValue = errors.New("malformed handshake public value")
)
