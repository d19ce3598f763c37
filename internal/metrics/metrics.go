// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitness_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_webhook_events_total",
			Help: "Identity webhooks by event type and outcome",
		},
		[]string{"type", "outcome"},
	)
	generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_program_generations_total",
			Help: "Program generation requests by outcome",
		},
		[]string{"outcome"},
	)
	aiCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitness_ai_call_duration_seconds",
			Help:    "Generative model call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"kind", "success"},
	)
)

// ObserveHTTPRequest records one served request. route is the matched route
// template, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordWebhookEvent counts a webhook delivery. outcome is e.g. "processed", "ignored", "rejected", "failed".
func RecordWebhookEvent(eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordGeneration counts a program generation by outcome.
func RecordGeneration(outcome string) {
	generations.WithLabelValues(outcome).Inc()
}

// ObserveAICall records the duration of one model call; kind is "workout" or "diet".
func ObserveAICall(kind string, success bool, elapsed time.Duration) {
	aiCallDuration.WithLabelValues(kind, strconv.FormatBool(success)).Observe(elapsed.Seconds())
}
