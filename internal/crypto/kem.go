package crypto

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katzenpost/hpqc/kem"
	"github.com/katzenpost/hpqc/kem/mlkem768"
	"github.com/katzenpost/hpqc/kem/xwing"

	"pqchat/internal/domain"
)

// DefaultKEM is the scheme used when none is configured.
const DefaultKEM = "MLKEM768"

var kemSchemes = map[string]kem.Scheme{
	strings.ToLower(mlkem768.Scheme().Name()): mlkem768.Scheme(),
	strings.ToLower(xwing.Scheme().Name()):    xwing.Scheme(),
}

// KEMNames lists the supported scheme names.
func KEMNames() []string {
	names := make([]string, 0, len(kemSchemes))
	for _, s := range kemSchemes {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// KEM drives one key-encapsulation scheme. Key and ciphertext sizes are fixed
// by the scheme, so both peers know them without negotiation.
type KEM struct {
	scheme kem.Scheme
}

// NewKEM returns the KEM registered under name (case-insensitive).
func NewKEM(name string) (*KEM, error) {
	s, ok := kemSchemes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownKEM, name, strings.Join(KEMNames(), ", "))
	}
	return &KEM{scheme: s}, nil
}

// Name returns the scheme name.
func (k *KEM) Name() string { return k.scheme.Name() }

// PublicKeySize is the size of an encoded public key.
func (k *KEM) PublicKeySize() int { return k.scheme.PublicKeySize() }

// CiphertextSize is the size of an encapsulation.
func (k *KEM) CiphertextSize() int { return k.scheme.CiphertextSize() }

// SharedSecretSize is the size of a decapsulated secret.
func (k *KEM) SharedSecretSize() int { return k.scheme.SharedKeySize() }

// KeyPair generates a fresh key pair.
func (k *KEM) KeyPair() (*domain.KeyPair, error) {
	pub, priv, err := k.scheme.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("kem keypair: %w", err)
	}
	blob, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("kem keypair: %w", err)
	}
	return &domain.KeyPair{Public: append([]byte(nil), blob...), Private: priv}, nil
}

// Encapsulate draws a fresh shared secret and encapsulates it to peerPublic.
func (k *KEM) Encapsulate(peerPublic []byte) (sharedSecret, ciphertext []byte, err error) {
	if len(peerPublic) != k.PublicKeySize() {
		return nil, nil, fmt.Errorf("%w: peer public key is %d bytes, want %d",
			ErrKeyAgreement, len(peerPublic), k.PublicKeySize())
	}
	pk, err := k.scheme.UnmarshalBinaryPublicKey(peerPublic)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyAgreement, err)
	}
	ct, ss, err := k.scheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyAgreement, err)
	}
	return ss, ct, nil
}

// Decapsulate recovers the shared secret in ciphertext with kp's private key.
// A ciphertext of the wrong length is rejected before the scheme sees it.
func (k *KEM) Decapsulate(ciphertext []byte, kp *domain.KeyPair) ([]byte, error) {
	if len(ciphertext) != k.CiphertextSize() {
		return nil, fmt.Errorf("%w: ciphertext is %d bytes, want %d",
			ErrDecapsulation, len(ciphertext), k.CiphertextSize())
	}
	if kp == nil || kp.Private == nil {
		return nil, fmt.Errorf("%w: no private key", ErrDecapsulation)
	}
	ss, err := k.scheme.Decapsulate(kp.Private, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecapsulation, err)
	}
	if len(ss) != k.SharedSecretSize() {
		return nil, fmt.Errorf("%w: secret is %d bytes, want %d",
			ErrDecapsulation, len(ss), k.SharedSecretSize())
	}
	return ss, nil
}
