package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		completionRequestsTotal,
		completionLatencyMs,
	)
}

var (
	completionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_completion_requests_total",
			Help: "Completion calls per provider/model and outcome.",
		},
		[]string{"provider", "model", "outcome"},
	)

	completionLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_completion_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"provider", "model"},
	)
)

// ObserveCompletion records one completion call. outcome is "ok" or an
// error kind.
func ObserveCompletion(provider, model, outcome string, latencyMs int64) {
	completionRequestsTotal.WithLabelValues(norm(provider), norm(model), norm(outcome)).Inc()
	completionLatencyMs.WithLabelValues(norm(provider), norm(model)).Observe(float64(latencyMs))
}
