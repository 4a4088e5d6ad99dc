package interfaces

// Transport is a framed point-to-point byte stream. Read blocks until a whole
// frame arrives and fails with domain.ErrTransportClosed once the peer is
// gone. Disconnect unblocks any pending Read.
type Transport interface {
	Send(frame []byte) error
	Read() ([]byte, error)
	Disconnect() error
}
