package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pqchat/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "MLKEM768", cfg.Crypto.KEM)
	require.Equal(t, "NOTICE", cfg.Logging.Level)
	require.Empty(t, cfg.Logging.File)
	require.Empty(t, cfg.Metrics.Address)
	require.Equal(t, 64, cfg.Relay.QueueDepth)
	require.True(t, *cfg.Relay.Echo)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load([]byte(`
[Crypto]
  KEM = "XWING"

[Logging]
  Level = "DEBUG"
  File = "/tmp/pqchat.log"

[Metrics]
  Address = "127.0.0.1:9100"

[Relay]
  QueueDepth = 8
  Echo = false
`))
	require.NoError(t, err)
	require.Equal(t, "XWING", cfg.Crypto.KEM)
	require.Equal(t, "DEBUG", cfg.Logging.Level)
	require.Equal(t, "127.0.0.1:9100", cfg.Metrics.Address)
	require.Equal(t, 8, cfg.Relay.QueueDepth)
	require.False(t, *cfg.Relay.Echo)
}

func TestLoadRejects(t *testing.T) {
	for name, body := range map[string]string{
		"undecoded":   "[Crypto]\nKEM = \"MLKEM768\"\nCurve = \"x25519\"\n",
		"unknown kem": "[Crypto]\nKEM = \"Kyber512\"\n",
		"bad level":   "[Logging]\nLevel = \"LOUD\"\n",
		"bad address": "[Metrics]\nAddress = \"nope\"\n",
		"bad depth":   "[Relay]\nQueueDepth = -1\n",
		"syntax":      "[Crypto\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load([]byte(body))
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pqchat.toml")
	require.NoError(t, os.WriteFile(path, []byte("[Relay]\nQueueDepth = 2\n"), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Relay.QueueDepth)
	require.Equal(t, "MLKEM768", cfg.Crypto.KEM)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
