package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pqchat/internal/app"
	"pqchat/internal/config"
	"pqchat/internal/domain"
	"pqchat/internal/network"
)

type nopDisplay struct{}

func (nopDisplay) Success(string)  {}
func (nopDisplay) Incoming(string) {}
func (nopDisplay) Outgoing(string) {}
func (nopDisplay) Notice(string)   {}

func TestNewWireDefaults(t *testing.T) {
	cfg, err := app.LoadConfig("")
	require.NoError(t, err)
	cfg.Logging.Disable = true

	w, err := app.NewWire(cfg, nopDisplay{})
	require.NoError(t, err)
	defer w.Close()
	require.Equal(t, "MLKEM768", w.KEM.Name())

	ta, tb := network.Pipe()
	a, b := w.Chat(ta), w.Chat(tb)
	errCh := make(chan error, 1)
	go func() { errCh <- b.Handshake() }()
	require.NoError(t, a.Handshake())
	require.NoError(t, <-errCh)

	_, err = w.Dial(context.Background(), domain.Role("sideways"), "127.0.0.1", 1)
	require.Error(t, err)
}

func TestNewWireMetrics(t *testing.T) {
	cfg, err := config.Load([]byte("[Logging]\nDisable = true\n[Metrics]\nAddress = \"127.0.0.1:0\"\n"))
	require.NoError(t, err)

	w, err := app.NewWire(cfg, nopDisplay{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestRotateLogOnSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pqchat.log")
	cfg, err := config.Load([]byte("[Logging]\nLevel = \"NOTICE\"\nFile = \"" + filepath.ToSlash(path) + "\"\n"))
	require.NoError(t, err)

	w, err := app.NewWire(cfg, nopDisplay{})
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, os.Rename(path, path+".1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	go w.RotateLogOn(ctx, sig)
	sig <- syscall.SIGHUP

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), "log rotated")
	}, 5*time.Second, 10*time.Millisecond)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := app.LoadConfig(t.TempDir() + "/nope.toml")
	require.Error(t, err)
}

func TestParseArgs(t *testing.T) {
	p, err := app.ParsePort("8080")
	require.NoError(t, err)
	require.Equal(t, uint16(8080), p)
	for _, bad := range []string{"0", "65536", "-1", "http", ""} {
		_, err := app.ParsePort(bad)
		require.Error(t, err, bad)
	}

	r, err := app.ParseRole("connect")
	require.NoError(t, err)
	require.Equal(t, domain.RoleConnect, r)
	_, err = app.ParseRole("accept")
	require.Error(t, err)
}
