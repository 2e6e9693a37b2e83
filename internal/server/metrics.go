package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts rate requests per provider and outcome.
type Metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	quotes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the rate collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_requests_total",
			Help: "Rate requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_quotes_total",
			Help: "Quotes returned by provider.",
		}, []string{"provider"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rate_request_duration_seconds",
			Help:    "Time spent waiting on the provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	reg.MustRegister(m.requests, m.quotes, m.duration)
	return m
}

func (m *Metrics) observe(provider, outcome string, quotes int, seconds float64) {
	m.requests.WithLabelValues(provider, outcome).Inc()
	m.quotes.WithLabelValues(provider).Add(float64(quotes))
	m.duration.WithLabelValues(provider).Observe(seconds)
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
