package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "storefront"

// Metrics holds the transport collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
	replays   prometheus.Counter
}

// NewMetrics creates the transport collectors and registers them with reg when non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "transport",
				Name:      "requests_total",
				Help:      "Requests sent to the backend by method and status class",
			},
			[]string{"method", "class"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "transport",
				Name:      "request_duration_seconds",
				Help:      "Time taken by one backend round trip",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "transport",
				Name:      "refreshes_total",
				Help:      "Session refresh calls by result",
			},
			[]string{"result"},
		),
		replays: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "transport",
				Name:      "replays_total",
				Help:      "Requests replayed after a successful refresh",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.refreshes, m.replays)
	}

	return m
}

func (m *Metrics) observeRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(method, statusClass(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRefresh(err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "failure"
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) observeReplay() {
	if m == nil {
		return
	}

	m.replays.Inc()
}

// statusClass maps 404 to "4xx"; zero means no response.
func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}

	return strconv.Itoa(status/100) + "xx"
}
