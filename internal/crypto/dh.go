package crypto

import (
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/katzenpost/hpqc/rand"

	"pqchat/internal/wire"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// DHParams is a safe-prime group: P = 2Q + 1 with G generating the order-Q
// subgroup.
type DHParams struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// Validate checks the group structure. It does not re-test primality.
func (p *DHParams) Validate() error {
	if p == nil || p.P == nil || p.Q == nil || p.G == nil {
		return errors.New("crypto: incomplete DH parameters")
	}
	want := new(big.Int).Lsh(p.Q, 1)
	want.Add(want, one)
	if want.Cmp(p.P) != 0 {
		return errors.New("crypto: DH parameters are not a safe-prime group")
	}
	if p.G.Cmp(one) <= 0 || p.G.Cmp(p.P) >= 0 {
		return errors.New("crypto: DH generator out of range")
	}
	if new(big.Int).Exp(p.G, p.Q, p.P).Cmp(one) != 0 {
		return errors.New("crypto: DH generator not in prime-order subgroup")
	}
	return nil
}

// Message returns the parameters as a wire message.
func (p *DHParams) Message() *wire.HandshakeParams {
	return &wire.HandshakeParams{P: p.P, Q: p.Q, G: p.G}
}

// DHParamsFromMessage accepts parameters received from a peer. They are
// untrusted until Validate passes and P and Q test prime.
func DHParamsFromMessage(m *wire.HandshakeParams) (*DHParams, error) {
	p := &DHParams{P: m.P, Q: m.Q, G: m.G}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyAgreement, err)
	}
	if !p.P.ProbablyPrime(20) || !p.Q.ProbablyPrime(20) {
		return nil, fmt.Errorf("%w: DH modulus is not a safe prime", ErrKeyAgreement)
	}
	return p, nil
}

// GenerateDHParams finds a safe prime of pbits bits and a generator of its
// prime-order subgroup.
func GenerateDHParams(pbits int) (*DHParams, error) {
	if pbits < 16 {
		return nil, fmt.Errorf("crypto: DH modulus of %d bits is too small", pbits)
	}
	var p, q *big.Int
	for {
		var err error
		q, err = cryptorand.Prime(rand.Reader, pbits-1)
		if err != nil {
			return nil, fmt.Errorf("crypto: dh params: %w", err)
		}
		p = new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if p.ProbablyPrime(20) {
			break
		}
	}
	// Any square other than 1 generates the order-q subgroup.
	for {
		h, err := randRange(two, new(big.Int).Sub(p, two))
		if err != nil {
			return nil, err
		}
		g := new(big.Int).Exp(h, two, p)
		if g.Cmp(one) != 0 {
			return &DHParams{P: p, Q: q, G: g}, nil
		}
	}
}

// DHKeyPair draws a private exponent in [1, Q-1] and its public value.
func DHKeyPair(params *DHParams) (priv, pub *big.Int, err error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	priv, err = randRange(one, new(big.Int).Sub(params.Q, one))
	if err != nil {
		return nil, nil, err
	}
	pub = new(big.Int).Exp(params.G, priv, params.P)
	return priv, pub, nil
}

// DHAgree computes the shared value with a peer's public value, left-padded
// to the byte length of P. Peer values outside the prime-order subgroup are
// rejected.
func DHAgree(params *DHParams, priv, peerPub *big.Int) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if peerPub == nil || peerPub.Cmp(one) <= 0 || peerPub.Cmp(new(big.Int).Sub(params.P, one)) >= 0 {
		return nil, fmt.Errorf("%w: peer value out of range", ErrKeyAgreement)
	}
	if new(big.Int).Exp(peerPub, params.Q, params.P).Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: peer value not in subgroup", ErrKeyAgreement)
	}
	shared := new(big.Int).Exp(peerPub, priv, params.P)
	return shared.FillBytes(make([]byte, (params.P.BitLen()+7)/8)), nil
}

// randRange returns a uniform integer in [lo, hi].
func randRange(lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, one)
	n, err := cryptorand.Int(rand.Reader, span)
	if err != nil {
		return nil, fmt.Errorf("crypto: random: %w", err)
	}
	return n.Add(n, lo), nil
}
