// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobportal_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// OAuthLogins counts completed provider callbacks by provider and outcome.
	OAuthLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_oauth_logins_total",
		Help: "Total number of OAuth callbacks by provider and outcome",
	}, []string{"provider", "outcome"})

	// EmployerPromotions counts employer promotion attempts by outcome.
	EmployerPromotions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_employer_promotions_total",
		Help: "Total number of employer promotion attempts by outcome",
	}, []string{"outcome"})

	// SetupSteps counts completed first-login setup steps.
	SetupSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_setup_steps_total",
		Help: "Total number of completed account setup steps",
	}, []string{"step"})

	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_rate_limit_rejections_total",
		Help: "Requests rejected by a rate limit rule",
	}, []string{"rule"})
)

// Login outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeDenied        = "denied"
	OutcomeInvalidState  = "invalid_state"
	OutcomeProviderError = "provider_error"
	OutcomeAuthFailed    = "auth_failed"
	OutcomePromoteFailed = "promotion_failed"
)

// Setup steps.
const (
	StepPasswordSet     = "password_set"
	StepPasswordSkipped = "password_skipped"
	StepProfileUpdated  = "profile_updated"
	StepProviderSync    = "provider_sync"
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
