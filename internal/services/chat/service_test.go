package chat_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/require"

	"pqchat/internal/crypto"
	"pqchat/internal/domain"
	"pqchat/internal/network"
	"pqchat/internal/services/chat"
	"pqchat/internal/services/session"
	"pqchat/internal/wire"
)

type recorder struct {
	mu       sync.Mutex
	incoming []string
	outgoing []string
	notices  []string
}

func (r *recorder) Success(string) {}

func (r *recorder) Incoming(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incoming = append(r.incoming, msg)
}

func (r *recorder) Outgoing(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outgoing = append(r.outgoing, msg)
}

func (r *recorder) Notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func newKEM(t *testing.T) *crypto.KEM {
	t.Helper()
	k, err := crypto.NewKEM(crypto.DefaultKEM)
	require.NoError(t, err)
	return k
}

// blockingInput never yields a line until the test ends.
func blockingInput(t *testing.T) io.Reader {
	r, w := io.Pipe()
	t.Cleanup(func() { w.Close() })
	return r
}

func TestHandshakeSendReceive(t *testing.T) {
	k := newKEM(t)
	ta, tb := network.Pipe()
	a := chat.New(ta, k, &recorder{})
	b := chat.New(tb, k, &recorder{})

	_, err := a.Receive(nil)
	require.ErrorIs(t, err, chat.ErrNoHandshake)

	errCh := make(chan error, 1)
	go func() { errCh <- b.Handshake() }()
	require.NoError(t, a.Handshake())
	require.NoError(t, <-errCh)
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	for i, msg := range []string{"hello", "world"} {
		require.NoError(t, a.Send([]byte(msg)))
		frame, err := tb.Read()
		require.NoError(t, err)

		var env wire.Envelope
		require.NoError(t, env.UnmarshalBinary(frame))
		require.Equal(t, i == 0, env.CarriesRotation())

		pt, err := b.Receive(frame)
		require.NoError(t, err)
		require.Equal(t, msg, string(pt))
	}
}

func TestRunExchangesLines(t *testing.T) {
	k := newKEM(t)
	ta, tb := network.Pipe()
	aDisplay, bDisplay := &recorder{}, &recorder{}
	a := chat.New(ta, k, aDisplay)
	b := chat.New(tb, k, bDisplay)

	bDone := make(chan error, 1)
	go func() { bDone <- b.Run(context.Background(), blockingInput(t)) }()

	require.NoError(t, a.Run(context.Background(), strings.NewReader("hello\n\nbye\n")))
	require.NoError(t, <-bDone)

	require.Equal(t, []string{"hello", "", "bye"}, aDisplay.outgoing)
	require.Equal(t, []string{"hello", "bye"}, bDisplay.incoming)
	require.Equal(t, []string{"Peer disconnected."}, bDisplay.notices)
}

func TestRunFailsOnBadMAC(t *testing.T) {
	k := newKEM(t)
	ta, tb := network.Pipe()
	b := chat.New(tb, k, &recorder{})

	bDone := make(chan error, 1)
	go func() { bDone <- b.Run(context.Background(), blockingInput(t)) }()

	peer, err := session.Handshake("peer", ta, k, nil, nil)
	require.NoError(t, err)

	frame, err := peer.Seal([]byte("forged"))
	require.NoError(t, err)
	var env wire.Envelope
	require.NoError(t, env.UnmarshalBinary(frame))
	env.MAC[0] ^= 1
	frame, err = env.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, ta.Send(frame))

	require.ErrorIs(t, <-bDone, domain.ErrAuthentication)
}

func TestRunStopsOnCancel(t *testing.T) {
	k := newKEM(t)
	ta, tb := network.Pipe()
	b := chat.New(tb, k, &recorder{})

	ctx, cancel := context.WithCancel(context.Background())
	bDone := make(chan error, 1)
	go func() { bDone <- b.Run(ctx, blockingInput(t)) }()

	_, err := session.Handshake("peer", ta, k, nil, nil)
	require.NoError(t, err)
	cancel()

	select {
	case err := <-bDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, err = ta.Read()
	require.ErrorIs(t, err, domain.ErrTransportClosed)
}

func TestRunSendsLongLines(t *testing.T) {
	k := newKEM(t)
	ta, tb := network.Pipe()
	aDisplay, bDisplay := &recorder{}, &recorder{}
	a := chat.New(ta, k, aDisplay)
	b := chat.New(tb, k, bDisplay)

	bDone := make(chan error, 1)
	go func() { bDone <- b.Run(context.Background(), blockingInput(t)) }()

	long := strings.Repeat("x", 70*1024)
	require.NoError(t, a.Run(context.Background(), strings.NewReader(long+"\nafter\n")))
	require.NoError(t, <-bDone)

	require.Equal(t, []string{long, "after"}, aDisplay.outgoing)
	require.Equal(t, []string{long, "after"}, bDisplay.incoming)
}

func TestRunReportsInputErrors(t *testing.T) {
	errBoom := errors.New("keyboard on fire")
	for _, tc := range []struct {
		name  string
		input io.Reader
		want  error
	}{
		{"oversized line", strings.NewReader(strings.Repeat("x", chat.MaxLineSize+1) + "\n"), bufio.ErrTooLong},
		{"read error", io.MultiReader(strings.NewReader("hi\n"), iotest.ErrReader(errBoom)), errBoom},
	} {
		t.Run(tc.name, func(t *testing.T) {
			k := newKEM(t)
			ta, tb := network.Pipe()
			a := chat.New(ta, k, &recorder{})
			b := chat.New(tb, k, &recorder{})

			bDone := make(chan error, 1)
			go func() { bDone <- b.Run(context.Background(), blockingInput(t)) }()

			require.ErrorIs(t, a.Run(context.Background(), tc.input), tc.want)
			require.NoError(t, <-bDone)
		})
	}
}
