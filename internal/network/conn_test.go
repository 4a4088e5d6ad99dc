package network

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pqchat/internal/domain"
)

func tcpPair(t *testing.T) (client, server *Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	client, err = Connect(context.Background(), "127.0.0.1", uint16(port))
	require.NoError(t, err)

	sc, ok := <-accepted
	require.True(t, ok)
	return client, newConn(sc)
}

func TestConnFrames(t *testing.T) {
	client, server := tcpPair(t)
	defer client.Disconnect()
	defer server.Disconnect()

	big := bytes.Repeat([]byte{0xaa}, 100000)
	require.NoError(t, client.Send([]byte("hello")))
	require.NoError(t, client.Send(nil))
	require.NoError(t, client.Send(big))

	got, err := server.Read()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	got, err = server.Read()
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = server.Read()
	require.NoError(t, err)
	require.Equal(t, big, got)
}

func TestConnPeerClose(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Disconnect()

	require.NoError(t, client.Disconnect())
	require.NoError(t, client.Disconnect())

	_, err := server.Read()
	require.ErrorIs(t, err, domain.ErrTransportClosed)

	_, err = client.Read()
	require.ErrorIs(t, err, domain.ErrTransportClosed)
}

func TestConnOversizedFrame(t *testing.T) {
	a, b := net.Pipe()
	conn := newConn(b)
	defer conn.Disconnect()

	go func() {
		var hdr [8]byte
		binary.LittleEndian.PutUint64(hdr[:], MaxFrameSize+1)
		a.Write(hdr[:])
	}()
	_, err := conn.Read()
	require.ErrorIs(t, err, ErrFrameTooLarge)

	require.ErrorIs(t, conn.Send(make([]byte, MaxFrameSize+1)), ErrFrameTooLarge)
}

func TestListenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := Listen(ctx, "127.0.0.1", 0)
	require.ErrorIs(t, err, context.Canceled)
}
