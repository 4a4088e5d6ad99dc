package network

import (
	"sync"

	"pqchat/internal/domain"
)

const pipeDepth = 64

var _ domain.Transport = (*PipeEnd)(nil)

// PipeEnd is one side of an in-memory link.
type PipeEnd struct {
	in  <-chan []byte
	out chan<- []byte
	l   *pipeLink
}

type pipeLink struct {
	once sync.Once
	done chan struct{}
}

func (l *pipeLink) close() {
	l.once.Do(func() { close(l.done) })
}

// Pipe returns two connected ends. Sends block once pipeDepth frames are
// queued. Disconnecting either end closes both.
func Pipe() (*PipeEnd, *PipeEnd) {
	ab := make(chan []byte, pipeDepth)
	ba := make(chan []byte, pipeDepth)
	l := &pipeLink{done: make(chan struct{})}
	return &PipeEnd{in: ba, out: ab, l: l}, &PipeEnd{in: ab, out: ba, l: l}
}

// Send queues a copy of frame for the other end.
func (p *PipeEnd) Send(frame []byte) error {
	select {
	case <-p.l.done:
		return domain.ErrTransportClosed
	default:
	}
	b := append([]byte(nil), frame...)
	select {
	case p.out <- b:
		return nil
	case <-p.l.done:
		return domain.ErrTransportClosed
	}
}

// Read returns the next frame. Frames queued before a disconnect are still
// delivered.
func (p *PipeEnd) Read() ([]byte, error) {
	select {
	case b := <-p.in:
		return b, nil
	default:
	}
	select {
	case b := <-p.in:
		return b, nil
	case <-p.l.done:
		select {
		case b := <-p.in:
			return b, nil
		default:
			return nil, domain.ErrTransportClosed
		}
	}
}

// Disconnect closes the link.
func (p *PipeEnd) Disconnect() error {
	p.l.close()
	return nil
}
