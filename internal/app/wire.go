package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"pqchat/internal/config"
	"pqchat/internal/crypto"
	"pqchat/internal/display"
	"pqchat/internal/domain"
	"pqchat/internal/instrument"
	"pqchat/internal/log"
	"pqchat/internal/network"
	"pqchat/internal/services/chat"
	"pqchat/internal/services/onion"
)

// Wire bundles the shared dependencies for one process.
type Wire struct {
	Config  *config.Config
	Log     *log.Backend
	Metrics *instrument.Metrics
	KEM     *crypto.KEM
	Display domain.Display

	metricsServer *http.Server
}

// NewWire constructs the dependency graph from cfg. disp may be nil, in
// which case the console on stdout is used.
func NewWire(cfg *config.Config, disp domain.Display) (*Wire, error) {
	backend, err := log.New(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Disable)
	if err != nil {
		return nil, err
	}
	k, err := crypto.NewKEM(cfg.Crypto.KEM)
	if err != nil {
		backend.Close()
		return nil, err
	}
	if disp == nil {
		disp = display.Stdout()
	}

	w := &Wire{
		Config:  cfg,
		Log:     backend,
		Metrics: instrument.New(),
		KEM:     k,
		Display: disp,
	}
	if addr := cfg.Metrics.Address; addr != "" {
		srv, err := w.Metrics.Serve(addr)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
		w.metricsServer = srv
		backend.GetLogger("app").Noticef("metrics on http://%s/metrics", srv.Addr)
	}
	backend.GetLogger("app").Debugf("using KEM %s", k.Name())
	return w, nil
}

// Close stops the metrics listener and releases the log file.
func (w *Wire) Close() error {
	if w.metricsServer != nil {
		w.metricsServer.Close()
	}
	return w.Log.Close()
}

// RotateLogOn reopens the log file each time sig fires, until ctx is done.
func (w *Wire) RotateLogOn(ctx context.Context, sig <-chan os.Signal) {
	l := w.Log.GetLogger("app")
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			if err := w.Log.Rotate(); err != nil {
				l.Errorf("failed to rotate log: %v", err)
				continue
			}
			l.Notice("log rotated")
		}
	}
}

// Dial opens a link in the given role.
func (w *Wire) Dial(ctx context.Context, role domain.Role, address string, port uint16) (*network.Conn, error) {
	l := w.Log.GetLogger("network")
	switch role {
	case domain.RoleListen:
		l.Noticef("waiting for a peer on %s:%d", address, port)
		return network.Listen(ctx, address, port)
	case domain.RoleConnect:
		l.Noticef("connecting to %s:%d", address, port)
		return network.Connect(ctx, address, port)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// Chat builds a two-party client over t.
func (w *Wire) Chat(t domain.Transport) *chat.Service {
	return chat.New(t, w.KEM, w.Display,
		chat.WithLogger(w.Log.GetLogger("chat")),
		chat.WithMetrics(w.Metrics),
	)
}

// Relay builds an onion relay between in and out.
func (w *Wire) Relay(in, out domain.Transport) *onion.Service {
	return onion.New(in, out, w.KEM, w.Display,
		onion.WithLogger(w.Log.GetLogger("relay")),
		onion.WithMetrics(w.Metrics),
		onion.WithQueueDepth(w.Config.Relay.QueueDepth),
		onion.WithEcho(*w.Config.Relay.Echo),
	)
}
