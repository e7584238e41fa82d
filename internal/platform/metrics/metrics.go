// Package metrics exposes Prometheus counters and histograms for contact
// submissions, email deliveries and weather lookups.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "site"

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	submissionsTotal *prometheus.CounterVec
	deliveriesTotal  *prometheus.CounterVec
	deliveryLatency  *prometheus.HistogramVec
	weatherTotal     *prometheus.CounterVec
	weatherLatency   prometheus.Histogram
	weatherCache     *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses a fresh registry so
// several routers can coexist in one process (tests, functions).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		deliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "deliveries_total",
			Help:      "Email delivery attempts by provider and status",
		}, []string{"provider", "status"}),
		deliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "delivery_latency_seconds",
			Help:      "Latency of email provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		weatherTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "weather",
			Name:      "lookups_total",
			Help:      "Weather lookups by outcome",
		}, []string{"outcome"}),
		weatherLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "weather",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of OpenWeather calls",
			Buckets:   prometheus.DefBuckets,
		}),
		weatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "weather",
			Name:      "cache_total",
			Help:      "Weather cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.submissionsTotal,
		m.deliveriesTotal,
		m.deliveryLatency,
		m.weatherTotal,
		m.weatherLatency,
		m.weatherCache,
	)
	return m
}

// ObserveSubmission counts a contact request outcome: sent, invalid, config or failed.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDelivery records one provider call. status is "ok" or the upstream HTTP status.
func (m *Metrics) ObserveDelivery(provider, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.deliveriesTotal.WithLabelValues(provider, status).Inc()
	m.deliveryLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveWeatherLookup counts a weather request outcome.
func (m *Metrics) ObserveWeatherLookup(outcome string) {
	if m == nil {
		return
	}
	m.weatherTotal.WithLabelValues(outcome).Inc()
}

// ObserveWeatherUpstream records the latency of one upstream fetch.
func (m *Metrics) ObserveWeatherUpstream(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.weatherLatency.Observe(elapsed.Seconds())
}

// ObserveWeatherCache counts a cache hit, miss or error.
func (m *Metrics) ObserveWeatherCache(result string) {
	if m == nil {
		return
	}
	m.weatherCache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
