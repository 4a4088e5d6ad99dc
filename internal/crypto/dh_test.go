package crypto_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"pqchat/internal/crypto"
	"pqchat/internal/wire"
)

func TestDHAgreement(t *testing.T) {
	params, err := crypto.GenerateDHParams(128)
	require.NoError(t, err)
	require.NoError(t, params.Validate())
	require.Equal(t, 128, params.P.BitLen())

	a, aPub, err := crypto.DHKeyPair(params)
	require.NoError(t, err)
	b, bPub, err := crypto.DHKeyPair(params)
	require.NoError(t, err)

	ab, err := crypto.DHAgree(params, a, bPub)
	require.NoError(t, err)
	ba, err := crypto.DHAgree(params, b, aPub)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
	require.Len(t, ab, 16)
}

func TestDHRejectsBadPeer(t *testing.T) {
	params, err := crypto.GenerateDHParams(64)
	require.NoError(t, err)
	priv, _, err := crypto.DHKeyPair(params)
	require.NoError(t, err)

	pMinus1 := new(big.Int).Sub(params.P, big.NewInt(1))
	for _, bad := range []*big.Int{nil, big.NewInt(0), big.NewInt(1), pMinus1, params.P} {
		_, err := crypto.DHAgree(params, priv, bad)
		require.ErrorIs(t, err, crypto.ErrKeyAgreement)
	}
}

func TestDHParamsValidate(t *testing.T) {
	bad := &crypto.DHParams{P: big.NewInt(23), Q: big.NewInt(7), G: big.NewInt(4)}
	require.Error(t, bad.Validate())

	// 5 generates the full group mod 23, not the order-11 subgroup.
	bad = &crypto.DHParams{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(5)}
	require.Error(t, bad.Validate())

	good := &crypto.DHParams{P: big.NewInt(23), Q: big.NewInt(11), G: big.NewInt(4)}
	require.NoError(t, good.Validate())

	_, err := crypto.GenerateDHParams(8)
	require.Error(t, err)
}

func TestDHParamsOverWire(t *testing.T) {
	params, err := crypto.GenerateDHParams(64)
	require.NoError(t, err)

	b, err := params.Message().MarshalBinary()
	require.NoError(t, err)
	var m wire.HandshakeParams
	require.NoError(t, m.UnmarshalBinary(b))

	got, err := crypto.DHParamsFromMessage(&m)
	require.NoError(t, err)
	require.Zero(t, params.P.Cmp(got.P))
	require.Zero(t, params.G.Cmp(got.G))

	// 21 = 2*10+1 but neither is prime.
	_, err = crypto.DHParamsFromMessage(&wire.HandshakeParams{P: big.NewInt(21), Q: big.NewInt(10), G: big.NewInt(4)})
	require.ErrorIs(t, err, crypto.ErrKeyAgreement)
}
