package session

import (
	"errors"
	"fmt"

	"gopkg.in/op/go-logging.v1"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/instrument"
	pqlog "pqchat/internal/log"
	"pqchat/internal/protocol/ratchet"
	"pqchat/internal/wire"
)

// SendPublic sends our raw public value as one frame.
func SendPublic(t domain.Transport, kp *domain.KeyPair) error {
	if err := t.Send(kp.PublicCopy()); err != nil {
		return fmt.Errorf("send public value: %w", err)
	}
	return nil
}

// ReadPublic reads the peer's raw public value and checks its size.
func ReadPublic(t domain.Transport, k *crypto.KEM) ([]byte, error) {
	b, err := t.Read()
	if err != nil {
		return nil, fmt.Errorf("read public value: %w", err)
	}
	if len(b) != k.PublicKeySize() {
		return nil, fmt.Errorf("%w: %d bytes, want %d", domain.ErrBadPublicValue, len(b), k.PublicKeySize())
	}
	return b, nil
}

// Link is an established, ratcheted connection to one peer.
type Link struct {
	name    string
	t       domain.Transport
	r       *ratchet.Locked
	log     *logging.Logger
	metrics *instrument.Metrics
}

// NewLink wraps t with a fresh ratchet built from the handshake result.
// name tags log lines.
func NewLink(name string, t domain.Transport, k *crypto.KEM, kp *domain.KeyPair, peerPublic []byte, log *logging.Logger, m *instrument.Metrics) *Link {
	if log == nil {
		log = pqlog.Discard().GetLogger(name)
	}
	l := &Link{
		name:    name,
		t:       t,
		r:       ratchet.NewLocked(ratchet.New(k, kp, peerPublic)),
		log:     log,
		metrics: m,
	}
	log.Noticef("%s: link up, local %s, peer %s", name, crypto.Fingerprint(kp.Public), crypto.Fingerprint(peerPublic))
	return l
}

// Handshake exchanges public values over t and returns the link.
func Handshake(name string, t domain.Transport, k *crypto.KEM, log *logging.Logger, m *instrument.Metrics) (*Link, error) {
	kp, err := k.KeyPair()
	if err != nil {
		return nil, err
	}
	if err := SendPublic(t, kp); err != nil {
		return nil, err
	}
	peer, err := ReadPublic(t, k)
	if err != nil {
		return nil, err
	}
	return NewLink(name, t, k, kp, peer, log, m), nil
}

// Fingerprint identifies our current public value on this link.
func (l *Link) Fingerprint() domain.Fingerprint { return l.r.Fingerprint() }

// Seal encrypts plaintext into one encoded envelope.
func (l *Link) Seal(plaintext []byte) ([]byte, error) {
	env, err := l.r.Send(plaintext)
	if err != nil {
		return nil, err
	}
	if env.CarriesRotation() {
		l.log.Infof("%s: rotated send keys, now %s", l.name, l.r.Fingerprint())
	}
	l.metrics.MessageSent(env.CarriesRotation())
	return env.MarshalBinary()
}

// Send seals plaintext and writes it to the transport.
func (l *Link) Send(plaintext []byte) error {
	frame, err := l.Seal(plaintext)
	if err != nil {
		return err
	}
	return l.t.Send(frame)
}

// Open decodes and decrypts one frame. A MAC mismatch is
// domain.ErrAuthentication; anything else concerns this frame only.
func (l *Link) Open(frame []byte) ([]byte, error) {
	var env wire.Envelope
	if err := env.UnmarshalBinary(frame); err != nil {
		return nil, err
	}
	pt, ok, err := l.r.Receive(&env)
	if err != nil {
		return nil, err
	}
	if !ok {
		l.metrics.MACFailure()
		return nil, domain.ErrAuthentication
	}
	if env.CarriesRotation() {
		l.log.Infof("%s: peer rotated to %s", l.name, crypto.Fingerprint(env.SenderPublicValue))
	}
	l.metrics.MessageReceived(env.CarriesRotation())
	return pt, nil
}

// Receive blocks for the next message that decrypts. Malformed frames are
// logged and skipped; a transport failure or a MAC mismatch ends the link.
func (l *Link) Receive() ([]byte, error) {
	for {
		frame, err := l.t.Read()
		if err != nil {
			return nil, err
		}
		pt, err := l.Open(frame)
		switch {
		case err == nil:
			return pt, nil
		case errors.Is(err, domain.ErrAuthentication):
			l.log.Errorf("%s: %v", l.name, err)
			return nil, err
		default:
			l.log.Warningf("%s: dropping frame: %v", l.name, err)
			l.metrics.FrameDropped()
		}
	}
}

// Disconnect closes the transport.
func (l *Link) Disconnect() error { return l.t.Disconnect() }
