package wire

import (
	"bytes"
	"fmt"
	"math/big"
)

// MessageType is the leading tag byte of every message.
type MessageType byte

const (
	TypeHandshakeParams MessageType = 0
	TypePublicValue     MessageType = 1
	TypeEnvelope        MessageType = 2
)

func (t MessageType) String() string {
	switch t {
	case TypeHandshakeParams:
		return "handshake-params"
	case TypePublicValue:
		return "public-value"
	case TypeEnvelope:
		return "envelope"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// PlaceholderKEMCiphertext is carried by envelopes that do not rotate keys.
var PlaceholderKEMCiphertext = []byte{0x00}

// MessageTypeOf reads the tag byte of buf.
func MessageTypeOf(buf []byte) (MessageType, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty message", ErrTruncatedInput)
	}
	t := MessageType(buf[0])
	switch t {
	case TypeHandshakeParams, TypePublicValue, TypeEnvelope:
		return t, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidTag, buf[0])
}

func expectType(buf []byte, want MessageType) error {
	t, err := MessageTypeOf(buf)
	if err != nil {
		return err
	}
	if t != want {
		return fmt.Errorf("%w: got %s, want %s", ErrInvalidTag, t, want)
	}
	return nil
}

// HandshakeParams carries classical Diffie-Hellman group parameters.
type HandshakeParams struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *HandshakeParams) MarshalBinary() ([]byte, error) {
	out := []byte{byte(TypeHandshakeParams)}
	out = PutInteger(out, m.P)
	out = PutInteger(out, m.Q)
	out = PutInteger(out, m.G)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *HandshakeParams) UnmarshalBinary(data []byte) error {
	if err := expectType(data, TypeHandshakeParams); err != nil {
		return err
	}
	r := &fieldReader{buf: data, off: 1}
	p, q, g := r.integer(), r.integer(), r.integer()
	if err := r.finish(); err != nil {
		return err
	}
	m.P, m.Q, m.G = p, q, g
	return nil
}

// PublicValue carries one party's raw public key.
type PublicValue struct {
	Value []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *PublicValue) MarshalBinary() ([]byte, error) {
	out := []byte{byte(TypePublicValue)}
	return PutString(out, m.Value), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *PublicValue) UnmarshalBinary(data []byte) error {
	if err := expectType(data, TypePublicValue); err != nil {
		return err
	}
	r := &fieldReader{buf: data, off: 1}
	v := r.bytes()
	if err := r.finish(); err != nil {
		return err
	}
	m.Value = v
	return nil
}

// Envelope is one encrypted, authenticated application message.
type Envelope struct {
	IV                []byte
	SenderPublicValue []byte
	Ciphertext        []byte
	MAC               []byte

	// KEMCiphertext is meaningful only on envelopes that rotate keys;
	// otherwise it holds PlaceholderKEMCiphertext.
	KEMCiphertext []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Envelope) MarshalBinary() ([]byte, error) {
	size := 1 + 5*LengthPrefixSize + len(m.IV) + len(m.SenderPublicValue) +
		len(m.Ciphertext) + len(m.MAC) + len(m.KEMCiphertext)
	out := make([]byte, 0, size)
	out = append(out, byte(TypeEnvelope))
	out = PutString(out, m.IV)
	out = PutString(out, m.SenderPublicValue)
	out = PutString(out, m.Ciphertext)
	out = PutString(out, m.MAC)
	out = PutString(out, m.KEMCiphertext)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Envelope) UnmarshalBinary(data []byte) error {
	if err := expectType(data, TypeEnvelope); err != nil {
		return err
	}
	r := &fieldReader{buf: data, off: 1}
	iv := r.bytes()
	pub := r.bytes()
	ct := r.bytes()
	mac := r.bytes()
	kct := r.bytes()
	if err := r.finish(); err != nil {
		return err
	}
	*m = Envelope{
		IV:                iv,
		SenderPublicValue: pub,
		Ciphertext:        ct,
		MAC:               mac,
		KEMCiphertext:     kct,
	}
	return nil
}

// AuthenticatedData returns iv ∥ publicValue ∥ ciphertext, the MAC input.
// The public value is passed in because the receiver authenticates against
// the value it has recorded, not the one the envelope claims.
func (m *Envelope) AuthenticatedData(publicValue []byte) []byte {
	out := make([]byte, 0, len(m.IV)+len(publicValue)+len(m.Ciphertext))
	out = append(out, m.IV...)
	out = append(out, publicValue...)
	return append(out, m.Ciphertext...)
}

// CarriesRotation reports whether the envelope holds a real KEM ciphertext.
func (m *Envelope) CarriesRotation() bool {
	return len(m.KEMCiphertext) > 0 && !bytes.Equal(m.KEMCiphertext, PlaceholderKEMCiphertext)
}
