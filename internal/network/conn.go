package network

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"pqchat/internal/domain"
	"pqchat/internal/wire"
)

// MaxFrameSize bounds a single frame.
const MaxFrameSize = wire.MaxFieldSize

// ErrFrameTooLarge is returned for frames above MaxFrameSize.
var ErrFrameTooLarge = fmt.Errorf("network: frame exceeds %d bytes", MaxFrameSize)

var _ domain.Transport = (*Conn)(nil)

// Conn is a framed TCP link to one peer.
type Conn struct {
	conn net.Conn
	r    *bufio.Reader

	sendMu    sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		conn:   c,
		r:      bufio.NewReader(c),
		closed: make(chan struct{}),
	}
}

// Listen waits on address:port for exactly one peer and stops listening once
// it has connected.
func Listen(ctx context.Context, address string, port uint16) (*Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", hostPort(address, port))
	if err != nil {
		return nil, fmt.Errorf("network: listen: %w", err)
	}
	defer ln.Close()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	c, err := ln.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("network: accept: %w", err)
	}
	return newConn(c), nil
}

// Connect dials address:port.
func Connect(ctx context.Context, address string, port uint16) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", hostPort(address, port))
	if err != nil {
		return nil, fmt.Errorf("network: connect: %w", err)
	}
	return newConn(c), nil
}

func hostPort(address string, port uint16) string {
	return net.JoinHostPort(address, strconv.Itoa(int(port)))
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Send writes one frame. Concurrent sends do not interleave.
func (c *Conn) Send(frame []byte) error {
	if len(frame) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	buf := make([]byte, wire.LengthPrefixSize, wire.LengthPrefixSize+len(frame))
	binary.LittleEndian.PutUint64(buf, uint64(len(frame)))
	buf = append(buf, frame...)

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if _, err := c.conn.Write(buf); err != nil {
		return c.mapErr(err)
	}
	return nil
}

// Read blocks for the next whole frame.
func (c *Conn) Read() ([]byte, error) {
	var hdr [wire.LengthPrefixSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return nil, c.mapErr(err)
	}
	n := binary.LittleEndian.Uint64(hdr[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	frame := make([]byte, n)
	if _, err := io.ReadFull(c.r, frame); err != nil {
		return nil, c.mapErr(err)
	}
	return frame, nil
}

// Disconnect closes the link and unblocks pending reads. It is idempotent.
func (c *Conn) Disconnect() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func (c *Conn) mapErr(err error) error {
	select {
	case <-c.closed:
		return domain.ErrTransportClosed
	default:
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return domain.ErrTransportClosed
	}
	return fmt.Errorf("network: %w", err)
}
