// Package instrument exports pqchat counters to Prometheus.
//
// Every method is safe on a nil *Metrics, so services can run uninstrumented.
package instrument

import (
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pqchat/internal/domain"
)

// Rotation sides.
const (
	SideSend    = "send"
	SideReceive = "receive"
)

// Metrics holds the counters and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	messagesSent     prometheus.Counter
	messagesReceived prometheus.Counter
	rotations        *prometheus.CounterVec
	macFailures      prometheus.Counter
	framesDropped    prometheus.Counter
	relayForwarded   *prometheus.CounterVec
}

// New creates the counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pqchat_messages_sent_total",
			Help: "Number of envelopes sent",
		}),
		messagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pqchat_messages_received_total",
			Help: "Number of envelopes received and authenticated",
		}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pqchat_rotations_total",
			Help: "Number of key rotations",
		}, []string{"side"}),
		macFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pqchat_mac_failures_total",
			Help: "Number of envelopes that failed authentication",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pqchat_frames_dropped_total",
			Help: "Number of malformed or undecryptable frames dropped",
		}),
		relayForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pqchat_relay_forwarded_total",
			Help: "Number of messages forwarded by the relay",
		}, []string{"direction"}),
	}
	m.registry.MustRegister(
		m.messagesSent,
		m.messagesReceived,
		m.rotations,
		m.macFailures,
		m.framesDropped,
		m.relayForwarded,
	)
	return m
}

// MessageSent counts one outgoing envelope, and a rotation if it carried one.
func (m *Metrics) MessageSent(rotated bool) {
	if m == nil {
		return
	}
	m.messagesSent.Inc()
	if rotated {
		m.rotations.WithLabelValues(SideSend).Inc()
	}
}

// MessageReceived counts one authenticated envelope.
func (m *Metrics) MessageReceived(rotated bool) {
	if m == nil {
		return
	}
	m.messagesReceived.Inc()
	if rotated {
		m.rotations.WithLabelValues(SideReceive).Inc()
	}
}

// MACFailure counts one envelope rejected by its MAC.
func (m *Metrics) MACFailure() {
	if m == nil {
		return
	}
	m.macFailures.Inc()
}

// FrameDropped counts one frame discarded without delivery.
func (m *Metrics) FrameDropped() {
	if m == nil {
		return
	}
	m.framesDropped.Inc()
}

// Forwarded counts one message the relay moved out of link d.
func (m *Metrics) Forwarded(d domain.Direction) {
	if m == nil {
		return
	}
	m.relayForwarded.WithLabelValues(d.String()).Inc()
}

// Registry returns the registry the counters live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Serve exposes /metrics on addr until the returned server is closed. The
// server's Addr holds the bound address.
func (m *Metrics) Serve(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ln.Close()
		}
	}()
	return srv, nil
}
