// Package telemetry exposes Prometheus metrics for the pipeline. All record
// methods are nil-safe so wiring metrics stays optional for embedders.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the pipeline.
type Metrics struct {
	interactionsTotal   *prometheus.CounterVec
	pipelineDuration    *prometheus.HistogramVec
	agentOutcomes       *prometheus.CounterVec
	escalationsTotal    *prometheus.CounterVec
	rateLimitRejections prometheus.Counter
	deferredPending     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance with its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		interactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caremesh_interactions_total",
				Help: "Total number of interactions processed by channel and escalation outcome",
			},
			[]string{"channel", "escalated"},
		),
		pipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caremesh_pipeline_duration_seconds",
				Help:    "End-to-end pipeline latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"channel"},
		),
		agentOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caremesh_agent_outcomes_total",
				Help: "Agent invocation outcomes by role and status",
			},
			[]string{"agent", "status"},
		),
		escalationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caremesh_escalations_total",
				Help: "Escalated turns by channel",
			},
			[]string{"channel"},
		),
		rateLimitRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "caremesh_rate_limit_rejections_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
		deferredPending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "caremesh_deferred_tasks_pending",
				Help: "Deferred feedback tasks scheduled but not yet completed",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.interactionsTotal,
		m.pipelineDuration,
		m.agentOutcomes,
		m.escalationsTotal,
		m.rateLimitRejections,
		m.deferredPending,
	)

	return m
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordInteraction records one completed pipeline run.
func (m *Metrics) RecordInteraction(channel string, escalated bool, dur time.Duration) {
	if m == nil {
		return
	}
	esc := "false"
	if escalated {
		esc = "true"
	}
	m.interactionsTotal.WithLabelValues(channel, esc).Inc()
	m.pipelineDuration.WithLabelValues(channel).Observe(dur.Seconds())
	if escalated {
		m.escalationsTotal.WithLabelValues(channel).Inc()
	}
}

// RecordAgentOutcome records how one agent invocation concluded.
func (m *Metrics) RecordAgentOutcome(agent, status string) {
	if m == nil {
		return
	}
	m.agentOutcomes.WithLabelValues(agent, status).Inc()
}

// RecordRateLimitRejection records one rejected request.
func (m *Metrics) RecordRateLimitRejection() {
	if m == nil {
		return
	}
	m.rateLimitRejections.Inc()
}

// DeferredScheduled marks one deferred task as pending.
func (m *Metrics) DeferredScheduled() {
	if m == nil {
		return
	}
	m.deferredPending.Inc()
}

// DeferredCompleted marks one deferred task as done.
func (m *Metrics) DeferredCompleted() {
	if m == nil {
		return
	}
	m.deferredPending.Dec()
}
