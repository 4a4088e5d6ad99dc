package types

import "github.com/katzenpost/hpqc/kem"

// KeyPair is a KEM key pair. Public is the raw encoding exchanged on the
// wire; Private stays with the party that generated it.
type KeyPair struct {
	Public  []byte
	Private kem.PrivateKey
}

// PublicCopy returns a copy of the public key bytes.
func (k *KeyPair) PublicCopy() []byte {
	out := make([]byte, len(k.Public))
	copy(out, k.Public)
	return out
}
