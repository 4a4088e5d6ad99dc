package onion

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/op/go-logging.v1"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/instrument"
	pqlog "pqchat/internal/log"
	"pqchat/internal/services/session"
	"pqchat/internal/worker"
)

// DefaultQueueDepth bounds each forwarding direction.
const DefaultQueueDepth = 64

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

// WithQueueDepth sets the per-direction queue size.
func WithQueueDepth(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.depth = n
		}
	}
}

// WithEcho controls whether forwarded plaintext is shown on the display.
func WithEcho(on bool) Option {
	return func(s *Service) { s.echo = on }
}

// Service relays between two links.
type Service struct {
	worker.Worker

	transports map[domain.Direction]domain.Transport
	kem        *crypto.KEM
	display    domain.Display
	log        *logging.Logger
	metrics    *instrument.Metrics
	depth      int
	echo       bool

	links map[domain.Direction]*session.Link

	errOnce sync.Once
	err     error
}

// New returns a relay between in and out.
func New(in, out domain.Transport, k *crypto.KEM, display domain.Display, opts ...Option) *Service {
	s := &Service{
		transports: map[domain.Direction]domain.Transport{
			domain.DirectionIn:  in,
			domain.DirectionOut: out,
		},
		kem:     k,
		display: display,
		depth:   DefaultQueueDepth,
		echo:    true,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = pqlog.Discard().GetLogger("onion")
	}
	return s
}

// Handshake sends one public value on both links, then reads the in-link
// peer's value followed by the out-link peer's.
func (s *Service) Handshake() error {
	kp, err := s.kem.KeyPair()
	if err != nil {
		return fmt.Errorf("onion: handshake: %w", err)
	}
	order := []domain.Direction{domain.DirectionIn, domain.DirectionOut}
	for _, d := range order {
		if err := session.SendPublic(s.transports[d], kp); err != nil {
			return fmt.Errorf("onion: %s handshake: %w", d, err)
		}
	}
	links := make(map[domain.Direction]*session.Link, 2)
	for _, d := range order {
		peer, err := session.ReadPublic(s.transports[d], s.kem)
		if err != nil {
			return fmt.Errorf("onion: %s handshake: %w", d, err)
		}
		links[d] = session.NewLink(d.String(), s.transports[d], s.kem, kp, peer, s.log, s.metrics)
	}
	s.links = links
	return nil
}

// Run relays until either link closes, a MAC fails or ctx is cancelled.
// Closing and cancellation return nil.
func (s *Service) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.fail(nil) })
	defer stop()

	if s.links == nil {
		if err := s.Handshake(); err != nil {
			s.fail(nil)
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	s.display.Success("Relay established.")

	for _, from := range []domain.Direction{domain.DirectionIn, domain.DirectionOut} {
		ch := make(chan []byte, s.depth)
		s.Go(func() { s.reader(from, ch) })
		s.Go(func() { s.fail(s.writer(from, ch)) })
	}

	<-s.HaltCh()
	s.Wait()
	return s.err
}

// reader decrypts messages arriving on link from and queues them for the
// opposite link. A clean close drains through the writer before teardown.
func (s *Service) reader(from domain.Direction, ch chan<- []byte) {
	defer close(ch)
	link := s.links[from]
	for {
		pt, err := link.Receive()
		if err != nil {
			if errors.Is(err, domain.ErrTransportClosed) {
				s.log.Noticef("%s: link closed", from)
				return
			}
			s.fail(fmt.Errorf("%s: %w", from, err))
			return
		}
		if s.echo {
			s.display.Incoming(fmt.Sprintf("[%s] %s", from, pt))
		}
		select {
		case ch <- pt:
		case <-s.HaltCh():
			return
		}
	}
}

// writer re-encrypts queued messages onto the link opposite from.
func (s *Service) writer(from domain.Direction, ch <-chan []byte) error {
	to := from.Opposite()
	link := s.links[to]
	for {
		select {
		case <-s.HaltCh():
			return nil
		case pt, ok := <-ch:
			if !ok {
				return nil
			}
			if err := link.Send(pt); err != nil {
				return fmt.Errorf("%s: %w", to, err)
			}
			s.metrics.Forwarded(from)
		}
	}
}

// fail records the first shutdown reason and tears both links down.
func (s *Service) fail(err error) {
	s.errOnce.Do(func() {
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrTransportClosed):
			err = nil
		default:
			s.log.Errorf("relay stopped: %v", err)
		}
		s.err = err
		for _, t := range s.transports {
			t.Disconnect()
		}
		s.display.Notice("Relay closed.")
		s.Signal()
	})
}
