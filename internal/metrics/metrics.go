package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codemaster_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// GenerationDuration tracks runtime latency per model and operation.
	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codemaster_generation_duration_seconds",
		Help:    "Time spent waiting on the generation runtime.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
	}, []string{"operation", "model"})

	// GenerationFailures counts failed runtime calls.
	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codemaster_generation_failures_total",
		Help: "Generation runtime calls that returned an error.",
	}, []string{"operation", "model"})

	// ModelSelections counts heuristic decisions by chosen model and reason.
	ModelSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codemaster_model_selections_total",
		Help: "Model selections made by the keyword heuristic.",
	}, []string{"model", "reason"})

	// InputChars tracks the distribution of prompt and code lengths.
	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codemaster_input_chars",
		Help:    "Number of characters in generate and fix inputs.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 50000},
	})

	// AgentActive is 1 while the agent is activated.
	AgentActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codemaster_agent_active",
		Help: "Whether the AI agent is activated (1) or not (0).",
	})
)

// SetActive mirrors the activation flag into AgentActive.
func SetActive(active bool) {
	if active {
		AgentActive.Set(1)
		return
	}
	AgentActive.Set(0)
}
