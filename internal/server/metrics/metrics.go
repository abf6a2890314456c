// Package metrics defines the server's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginUnknownUser        = "unknown_user"
	LoginError              = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	LoginAttempts   *prometheus.CounterVec
	GuardDecisions  *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ClearedCookies  prometheus.Counter
}

// New creates the metrics on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "falconusers_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "falconusers_guard_decisions_total",
			Help: "Route guard decisions by route class and decision",
		}, []string{"class", "decision"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "falconusers_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "falconusers_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ClearedCookies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "falconusers_session_cookies_cleared_total",
			Help: "Session cookies dropped because the token was invalid or expired",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.LoginAttempts,
		m.GuardDecisions,
		m.RequestsTotal,
		m.RequestDuration,
		m.ClearedCookies,
	)

	return m
}

func (m *Metrics) ObserveLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDecision(class, decision string) {
	m.GuardDecisions.WithLabelValues(class, decision).Inc()
}

func (m *Metrics) ObserveRequest(method, route, code string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, code).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
