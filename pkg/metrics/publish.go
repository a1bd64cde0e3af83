package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublishMetrics tracks per-platform publish outcomes.
type PublishMetrics struct {
	attempts *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPublishMetrics registers the publish metrics on the provided registerer.
func NewPublishMetrics(reg prometheus.Registerer) *PublishMetrics {
	if reg == nil {
		return &PublishMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_attempts_total",
		Help: "Publish attempts per platform.",
	}, []string{"platform"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_failures_total",
		Help: "Failed publish attempts per platform.",
	}, []string{"platform"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "publish_duration_seconds",
		Help:    "Wall-clock duration of a platform publish, including polling.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"platform"})
	reg.MustRegister(attempts, failures, duration)
	return &PublishMetrics{
		attempts: attempts,
		failures: failures,
		duration: duration,
	}
}

// IncAttempt increments the attempt counter for the platform.
func (p *PublishMetrics) IncAttempt(platform string) {
	if p == nil || p.attempts == nil {
		return
	}
	p.attempts.WithLabelValues(jobLabel(platform)).Inc()
}

// IncFailure increments the failure counter for the platform.
func (p *PublishMetrics) IncFailure(platform string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(jobLabel(platform)).Inc()
}

// ObserveDuration records how long a single platform publish took.
func (p *PublishMetrics) ObserveDuration(platform string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(jobLabel(platform)).Observe(duration.Seconds())
}
