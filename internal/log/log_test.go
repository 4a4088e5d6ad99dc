package log_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pqchat/internal/log"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	b, err := log.NewWriter(&buf, "notice")
	require.NoError(t, err)

	l := b.GetLogger("chat")
	l.Debug("hidden")
	l.Notice("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "NOTI chat: shown")
}

func TestRotateKeepsWriter(t *testing.T) {
	var buf bytes.Buffer
	b, err := log.NewWriter(&buf, "DEBUG")
	require.NoError(t, err)

	l := b.GetLogger("chat")
	l.Debug("before")
	require.NoError(t, b.Rotate())
	l.Debug("after")
	require.Contains(t, buf.String(), "before")
	require.Contains(t, buf.String(), "after")
}

func TestInvalidLevel(t *testing.T) {
	_, err := log.New("", "LOUD", false)
	require.Error(t, err)
	require.False(t, log.ValidLevel("LOUD"))
	require.True(t, log.ValidLevel("debug"))
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pqchat.log")
	b, err := log.New(path, "INFO", false)
	require.NoError(t, err)

	b.GetLogger("relay").Info("forwarded")
	rotated := path + ".1"
	require.NoError(t, os.Rename(path, rotated))
	require.NoError(t, b.Rotate())
	b.GetLogger("relay").Info("after rotate")
	require.NoError(t, b.Close())

	old, err := os.ReadFile(rotated)
	require.NoError(t, err)
	require.Contains(t, string(old), "INFO relay: forwarded")
	require.NotContains(t, string(old), "after rotate")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "after rotate")
}
