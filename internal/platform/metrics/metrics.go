package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RunsStarted       prometheus.Counter
	RunsCompleted     prometheus.Counter
	EntitiesEvaluated *prometheus.CounterVec
	EntitiesSkipped   prometheus.Counter
	PersistFailures   prometheus.Counter
	JudgeCalls        prometheus.Counter
	JudgeFailures     prometheus.Counter
	JudgeFallbacks    prometheus.Counter
	EvaluationSeconds prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_verification_runs_started_total",
			Help: "Total number of verification runs started",
		}),
		RunsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_verification_runs_completed_total",
			Help: "Total number of verification runs completed",
		}),
		EntitiesEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_entities_evaluated_total",
			Help: "Total number of entities evaluated, by resulting status",
		}, []string{"status"}),
		EntitiesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_entities_skipped_total",
			Help: "Total number of entities skipped as already notverified",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_persist_failures_total",
			Help: "Total number of verification status writes that failed",
		}),
		JudgeCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_judge_calls_total",
			Help: "Total number of discrepancy judge round trips",
		}),
		JudgeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_judge_failures_total",
			Help: "Total number of failed discrepancy judge calls",
		}),
		JudgeFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_judge_fallbacks_total",
			Help: "Total number of fail-closed fallbacks where all discrepancies were treated as genuine",
		}),
		EvaluationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritas_entity_evaluation_seconds",
			Help:    "Latency of a single entity evaluation",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveEvaluation(status string, d time.Duration) {
	m.EntitiesEvaluated.WithLabelValues(status).Inc()
	m.EvaluationSeconds.Observe(d.Seconds())
}
