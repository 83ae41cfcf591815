package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics holds the funnel's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registrations      *prometheus.CounterVec
	CRMCalls           *prometheus.CounterVec
	AndroidLinkAttempt *prometheus.CounterVec
	PassIssuance       *prometheus.CounterVec
	EndpointLatency    *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_registrations_total",
			Help: "Registrations by outcome",
		}, []string{"outcome"}),
		CRMCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_crm_calls_total",
			Help: "CRM platform calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		AndroidLinkAttempt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_android_link_attempts_total",
			Help: "Android link generation attempts by outcome",
		}, []string{"outcome"}),
		PassIssuance: f.NewCounterVec(prometheus.CounterOpts{
			Name: "funnel_wallet_pass_issuance_total",
			Help: "Wallet pass issuance by outcome",
		}, []string{"outcome"}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "funnel_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CRMCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.CRMCalls.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) AndroidAttempt(outcome string) {
	if m == nil {
		return
	}
	m.AndroidLinkAttempt.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Pass(outcome string) {
	if m == nil {
		return
	}
	m.PassIssuance.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(route, method, status).Observe(seconds)
}
