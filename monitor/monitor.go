// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	PlayersOnline    prometheus.Gauge
	RoomsActive      prometheus.Gauge
	MessagesReceived prometheus.Counter
	GamesCompleted   prometheus.Counter
	DispatchLatency  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		PlayersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_online",
			Help:      "Number of connected players",
		}),
		RoomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Number of live rooms",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Total number of inbound protocol messages",
		}),
		GamesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Total number of games played to a win",
		}),
		DispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_latency_seconds",
			Help:      "Message dispatch latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	prometheus.MustRegister(
		m.PlayersOnline,
		m.RoomsActive,
		m.MessagesReceived,
		m.GamesCompleted,
		m.DispatchLatency,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

// StartServer exposes /metrics plus expvar uptime on its own listener.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	expvar.Publish("uptime_seconds", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncPlayersOnline() {
	m.metrics.PlayersOnline.Inc()
}

func (m *Monitor) DecPlayersOnline() {
	m.metrics.PlayersOnline.Dec()
}

func (m *Monitor) SetRoomsActive(count int) {
	m.metrics.RoomsActive.Set(float64(count))
}

func (m *Monitor) IncMessagesReceived() {
	m.metrics.MessagesReceived.Inc()
}

func (m *Monitor) IncGamesCompleted() {
	m.metrics.GamesCompleted.Inc()
}

func (m *Monitor) ObserveDispatchLatency(duration time.Duration) {
	m.metrics.DispatchLatency.Observe(duration.Seconds())
}
