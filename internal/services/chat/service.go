package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/op/go-logging.v1"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/instrument"
	pqlog "pqchat/internal/log"
	"pqchat/internal/services/session"
	"pqchat/internal/worker"
)

// MaxLineSize bounds one line of input. It keeps a sealed line well inside a
// single frame.
const MaxLineSize = 1 << 20

// ErrNoHandshake is returned by Send and Receive before Handshake.
var ErrNoHandshake = errors.New("chat: handshake not done")

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *instrument.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service is one side of a two-party conversation.
type Service struct {
	worker.Worker

	transport domain.Transport
	kem       *crypto.KEM
	display   domain.Display
	log       *logging.Logger
	metrics   *instrument.Metrics

	link *session.Link

	errOnce sync.Once
	err     error
}

// New returns a Service that will talk over transport.
func New(transport domain.Transport, k *crypto.KEM, display domain.Display, opts ...Option) *Service {
	s := &Service{
		transport: transport,
		kem:       k,
		display:   display,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = pqlog.Discard().GetLogger("chat")
	}
	return s
}

// Handshake exchanges public values with the peer.
func (s *Service) Handshake() error {
	l, err := session.Handshake("chat", s.transport, s.kem, s.log, s.metrics)
	if err != nil {
		return fmt.Errorf("chat: handshake: %w", err)
	}
	s.link = l
	return nil
}

// Fingerprint identifies our current public value.
func (s *Service) Fingerprint() domain.Fingerprint {
	if s.link == nil {
		return ""
	}
	return s.link.Fingerprint()
}

// Send encrypts plaintext and sends it to the peer.
func (s *Service) Send(plaintext []byte) error {
	if s.link == nil {
		return ErrNoHandshake
	}
	return s.link.Send(plaintext)
}

// Receive decrypts one frame read from the transport.
func (s *Service) Receive(frame []byte) ([]byte, error) {
	if s.link == nil {
		return nil, ErrNoHandshake
	}
	return s.link.Open(frame)
}

// Run holds the conversation until one side hangs up, input ends or ctx is
// cancelled, all of which return nil. A MAC failure returns
// domain.ErrAuthentication, and an input read error or a line longer than
// MaxLineSize is returned wrapped.
func (s *Service) Run(ctx context.Context, input io.Reader) error {
	stop := context.AfterFunc(ctx, func() { s.fail(nil) })
	defer stop()

	if s.link == nil {
		if err := s.Handshake(); err != nil {
			s.fail(nil)
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	s.display.Success(fmt.Sprintf("Connected. Your fingerprint is %s.", s.Fingerprint()))

	lines := make(chan string)
	inputErr := make(chan error, 1)
	// The scanner may block on input forever, so it is not a managed goroutine.
	go scanLines(input, lines, inputErr, s.HaltCh())

	s.Go(func() { s.fail(s.sendLoop(lines, inputErr)) })
	s.Go(func() { s.fail(s.receiveLoop()) })

	<-s.HaltCh()
	s.Wait()
	return s.err
}

func (s *Service) sendLoop(lines <-chan string, inputErr <-chan error) error {
	for {
		select {
		case <-s.HaltCh():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-inputErr:
					return fmt.Errorf("chat: input: %w", err)
				default:
				}
				s.log.Notice("input closed")
				return nil
			}
			s.display.Outgoing(line)
			if line == "" {
				continue
			}
			if err := s.Send([]byte(line)); err != nil {
				return err
			}
		}
	}
}

func (s *Service) receiveLoop() error {
	for {
		pt, err := s.link.Receive()
		if err != nil {
			return err
		}
		s.display.Incoming(string(pt))
	}
}

// fail records the first shutdown reason and tears the session down.
func (s *Service) fail(err error) {
	s.errOnce.Do(func() {
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrTransportClosed):
			s.display.Notice("Peer disconnected.")
			err = nil
		default:
			s.log.Errorf("session ended: %v", err)
		}
		s.err = err
		s.transport.Disconnect()
		s.Signal()
	})
}

// scanLines feeds out until r ends. A scan error is left on errc before out
// is closed.
func scanLines(r io.Reader, out chan<- string, errc chan<- error, halt <-chan struct{}) {
	defer close(out)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-halt:
			return
		}
	}
	if err := sc.Err(); err != nil {
		errc <- err
	}
}
