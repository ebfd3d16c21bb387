package redikv

import (
	"errors"

	redikvErrors "redikv/internal/redikv/errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "redikv"

// Metrics groups the server counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	CommandsTotal      *prometheus.CounterVec
	CommandErrorsTotal *prometheus.CounterVec
	KeyspaceHits       prometheus.Counter
	KeyspaceMisses     prometheus.Counter
	ExpiredKeysRemoved prometheus.Counter
	ConnectedClients   prometheus.Gauge
	ConnectionsTotal   prometheus.Counter
}

// Creates the collectors and registers them on registerer
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commands_total",
			Help:      "Commands executed, by command name.",
		}, []string{"command"}),
		CommandErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "command_errors_total",
			Help:      "Requests rejected by the parser, by error kind.",
		}, []string{"kind"}),
		KeyspaceHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "keyspace_hits_total",
			Help:      "GET requests that found a live key.",
		}),
		KeyspaceMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "keyspace_misses_total",
			Help:      "GET requests for a missing or expired key.",
		}),
		ExpiredKeysRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "expired_keys_removed_total",
			Help:      "Expired entries removed by the sweeper.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connected_clients",
			Help:      "Currently open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connections_total",
			Help:      "Client connections accepted.",
		}),
	}

	collectors := []prometheus.Collector{
		metrics.CommandsTotal,
		metrics.CommandErrorsTotal,
		metrics.KeyspaceHits,
		metrics.KeyspaceMisses,
		metrics.ExpiredKeysRemoved,
		metrics.ConnectedClients,
		metrics.ConnectionsTotal,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return metrics, nil
}

func (m *Metrics) ObserveCommand(name string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(name).Inc()
}

func (m *Metrics) ObserveLookup(found bool) {
	if m == nil {
		return
	}
	if found {
		m.KeyspaceHits.Inc()
	} else {
		m.KeyspaceMisses.Inc()
	}
}

func (m *Metrics) ObserveParseError(err error) {
	if m == nil {
		return
	}
	m.CommandErrorsTotal.WithLabelValues(errorKind(err)).Inc()
}

func (m *Metrics) ObserveExpired(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.ExpiredKeysRemoved.Add(float64(removed))
}

func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.ConnectionsTotal.Inc()
	m.ConnectedClients.Inc()
}

func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.ConnectedClients.Dec()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, redikvErrors.ErrorWrongArity):
		return "wrong_arity"
	case errors.Is(err, redikvErrors.ErrorUnknownCommand):
		return "unknown_command"
	case errors.Is(err, redikvErrors.ErrorSyntax):
		return "syntax"
	case errors.Is(err, redikvErrors.ErrorProtocol):
		return "protocol"
	default:
		return "other"
	}
}
