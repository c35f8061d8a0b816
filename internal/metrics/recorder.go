package metrics

import (
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exports pipeline decisions and stage latencies.
type Recorder struct {
	decisions     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	faults        prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "guardrail_decisions_total",
			Help: "Total guardrail decisions by outcome",
		}, []string{"outcome"}),

		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guardrail_stage_duration_seconds",
			Help:    "Guardrail stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
		}, []string{"stage"}),

		faults: factory.NewCounter(prometheus.CounterOpts{
			Name: "guardrail_configuration_faults_total",
			Help: "Requests aborted by a configuration fault",
		}),
	}
}

func (r *Recorder) ObserveDecision(outcome models.Outcome) {
	r.decisions.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) ObserveStage(stage string, duration time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func (r *Recorder) ObserveConfigurationFault() {
	r.faults.Inc()
}
