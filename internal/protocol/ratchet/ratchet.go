package ratchet

import (
	"errors"
	"fmt"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/wire"
)

// ErrNotEstablished is returned when sending before any keys exist and no
// rotation is pending.
var ErrNotEstablished = errors.New("ratchet: no keys established")

// State is one side of a conversation.
type State struct {
	kem *crypto.KEM

	keyPair    *domain.KeyPair
	peerPublic []byte

	aesKey  []byte
	hmacKey []byte

	needsRotation bool
	rotations     uint64
}

// New creates a state from the handshake: our key pair and the peer's public
// value. No symmetric keys exist yet, so whichever side sends first rotates.
func New(k *crypto.KEM, keyPair *domain.KeyPair, peerPublic []byte) *State {
	return &State{
		kem:           k,
		keyPair:       keyPair,
		peerPublic:    append([]byte(nil), peerPublic...),
		needsRotation: true,
	}
}

// Send encrypts plaintext into an envelope, rotating first if this is our
// first send since the peer last rotated.
func (s *State) Send(plaintext []byte) (*wire.Envelope, error) {
	kemCiphertext := append([]byte(nil), wire.PlaceholderKEMCiphertext...)
	switch {
	case s.needsRotation:
		ct, err := s.rotateSend()
		if err != nil {
			return nil, err
		}
		kemCiphertext = ct
	case !s.Established():
		return nil, ErrNotEstablished
	}

	ciphertext, iv, err := crypto.AESEncrypt(s.aesKey, plaintext)
	if err != nil {
		return nil, err
	}
	env := &wire.Envelope{
		IV:                iv,
		SenderPublicValue: s.keyPair.PublicCopy(),
		Ciphertext:        ciphertext,
		KEMCiphertext:     kemCiphertext,
	}
	env.MAC = crypto.HMACGenerate(s.hmacKey, env.AuthenticatedData(env.SenderPublicValue))
	return env, nil
}

func (s *State) rotateSend() ([]byte, error) {
	kp, err := s.kem.KeyPair()
	if err != nil {
		return nil, err
	}
	ss, ct, err := s.kem.Encapsulate(s.peerPublic)
	if err != nil {
		return nil, err
	}
	s.keyPair = kp
	s.installKeys(ss)
	s.needsRotation = false
	return ct, nil
}

// Receive authenticates and decrypts env. A MAC mismatch returns
// (nil, false, nil) with the state unchanged. Any other failure is an error.
func (s *State) Receive(env *wire.Envelope) ([]byte, bool, error) {
	peerPublic := s.peerPublic
	aesKey, hmacKey := s.aesKey, s.hmacKey
	rotate := !s.needsRotation || !s.Established()

	if rotate {
		ss, err := s.kem.Decapsulate(env.KEMCiphertext, s.keyPair)
		if err != nil {
			return nil, false, err
		}
		peerPublic = env.SenderPublicValue
		aesKey, hmacKey = crypto.DeriveAESKey(ss), crypto.DeriveHMACKey(ss)
		crypto.Wipe(ss)
	}

	if !crypto.HMACVerify(hmacKey, env.AuthenticatedData(peerPublic), env.MAC) {
		if rotate {
			crypto.Wipe(aesKey, hmacKey)
		}
		return nil, false, nil
	}

	if rotate {
		crypto.Wipe(s.aesKey, s.hmacKey)
		s.peerPublic = append([]byte(nil), peerPublic...)
		s.aesKey, s.hmacKey = aesKey, hmacKey
		s.needsRotation = true
		s.rotations++
	}

	pt, err := crypto.AESDecrypt(s.aesKey, env.IV, env.Ciphertext)
	if err != nil {
		return nil, true, fmt.Errorf("ratchet: %w", err)
	}
	return pt, true, nil
}

func (s *State) installKeys(ss []byte) {
	crypto.Wipe(s.aesKey, s.hmacKey)
	s.aesKey = crypto.DeriveAESKey(ss)
	s.hmacKey = crypto.DeriveHMACKey(ss)
	crypto.Wipe(ss)
	s.rotations++
}

// PublicKey returns our current public value.
func (s *State) PublicKey() []byte { return s.keyPair.PublicCopy() }

// PeerPublicKey returns the peer's last recorded public value.
func (s *State) PeerPublicKey() []byte { return append([]byte(nil), s.peerPublic...) }

// NeedsRotation reports whether the next Send rotates.
func (s *State) NeedsRotation() bool { return s.needsRotation }

// Established reports whether symmetric keys have been derived.
func (s *State) Established() bool { return s.aesKey != nil }

// Fingerprint identifies our current public value.
func (s *State) Fingerprint() domain.Fingerprint {
	return domain.Fingerprint(crypto.Fingerprint(s.keyPair.Public))
}

// Rotations counts rotations on both the send and receive side.
func (s *State) Rotations() uint64 { return s.rotations }
