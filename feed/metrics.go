// Package feed provides the ranking orchestrator: it wires vectorization,
// scoring, diversification, and pagination into one request-scoped pipeline
// and reports which posts were shown.
package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRankRequestsTotal   = "feed_rank_requests_total"
	MetricRankStrategyTotal   = "feed_rank_strategy_total"
	MetricRankDuration        = "feed_rank_duration_seconds"
	MetricViewLogErrorsTotal  = "feed_view_log_errors_total"
	MetricLastCandidateCount  = "feed_last_candidate_count"
)

// Metrics contains Prometheus metrics for the ranking pipeline.
// All operations are thread-safe.
type Metrics struct {
	rankRequestsTotal  prometheus.Counter
	rankStrategyTotal  *prometheus.CounterVec
	rankDuration       prometheus.Histogram
	viewLogErrorsTotal prometheus.Counter
	lastCandidateCount prometheus.Gauge
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		rankRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankRequestsTotal,
			Help: "Total number of feed ranking requests",
		}),
		rankStrategyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRankStrategyTotal,
			Help: "Ranking requests by selected scoring strategy",
		}, []string{"strategy"}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of feed ranking request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		viewLogErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricViewLogErrorsTotal,
			Help: "Total number of non-fatal view logging failures",
		}),
		lastCandidateCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastCandidateCount,
			Help: "Candidate pool size of the most recent ranking request",
		}),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors managed by this Metrics instance.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rankRequestsTotal,
		m.rankStrategyTotal,
		m.rankDuration,
		m.viewLogErrorsTotal,
		m.lastCandidateCount,
	}
}

// ObserveRequest records one completed ranking request.
func (m *Metrics) ObserveRequest(strategy string, durationSeconds float64, candidateCount int) {
	m.rankRequestsTotal.Inc()
	m.rankStrategyTotal.WithLabelValues(strategy).Inc()
	m.rankDuration.Observe(durationSeconds)
	m.lastCandidateCount.Set(float64(candidateCount))
}

// RecordViewLogError records one non-fatal view logging failure.
func (m *Metrics) RecordViewLogError() {
	m.viewLogErrorsTotal.Inc()
}
