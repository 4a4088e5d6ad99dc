package interfaces

// Display renders session events for the operator. It has no protocol role.
type Display interface {
	// Success announces an established session or link.
	Success(msg string)
	// Incoming prints plaintext received from the peer.
	Incoming(msg string)
	// Outgoing echoes plaintext sent by the local user.
	Outgoing(msg string)
	// Notice prints an operational message such as a disconnect.
	Notice(msg string)
}
