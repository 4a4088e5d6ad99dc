package crypto

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKEM   = errors.New("crypto: unknown KEM scheme")
	ErrKeyAgreement = errors.New("crypto: key agreement failed")
	ErrEncryption   = errors.New("crypto: encryption failed")
	ErrDecryption   = errors.New("crypto: decryption failed")

	// ErrDecapsulation is the KEM flavour of ErrKeyAgreement.
	ErrDecapsulation = fmt.Errorf("%w: decapsulation", ErrKeyAgreement)
)
