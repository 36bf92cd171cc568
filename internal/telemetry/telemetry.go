// Package telemetry provides OpenTelemetry instrumentation for the
// moderation service. It exports Prometheus metrics and provides tracing.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "moderation"

// Metrics holds all moderation Prometheus metrics
type Metrics struct {
	// Intake metrics
	CommentsProcessed *prometheus.CounterVec
	IntakeDuration    prometheus.Histogram

	// Classifier metrics
	Verdicts         *prometheus.CounterVec
	ShadowBans       prometheus.Counter
	AutoPins         prometheus.Counter
	ClassifyDuration prometheus.Histogram

	// Rate limiter metrics
	RateLimitRejected *prometheus.CounterVec

	// Handle checker metrics
	HandleChecks *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.CommentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_comments_processed_total",
		Help: "Total comment submissions by outcome (accepted, shadow_banned, policy_rejected, rate_limited, failed)",
	}, []string{"outcome"})

	m.IntakeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_intake_duration_seconds",
		Help:    "End-to-end time to process one comment submission",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	m.Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_classifier_verdicts_total",
		Help: "Classifier verdicts by sentiment (positive, neutral, negative, toxic)",
	}, []string{"sentiment"})

	m.ShadowBans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_shadow_bans_total",
		Help: "Comments persisted with the shadow-ban flag set",
	})

	m.AutoPins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moderation_auto_pins_total",
		Help: "Comments auto-pinned as the first positive comment on a post",
	})

	m.ClassifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderation_classify_duration_seconds",
		Help:    "Time spent in safety classification",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	})

	m.RateLimitRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_rate_limit_rejections_total",
		Help: "Admission checks rejected by the rate limiter, by action",
	}, []string{"action"})

	m.HandleChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_handle_checks_total",
		Help: "Social-handle checks by resulting status (ok, review, blocked)",
	}, []string{"status"})

	return m
}

// RecordIntake records the outcome and duration of one intake run
func (p *Provider) RecordIntake(ctx context.Context, outcome string, duration time.Duration) {
	p.Metrics.CommentsProcessed.WithLabelValues(outcome).Inc()
	p.Metrics.IntakeDuration.Observe(duration.Seconds())
}

// RecordVerdict records a classifier verdict
func (p *Provider) RecordVerdict(ctx context.Context, sentiment string, shadowBanned bool, duration time.Duration) {
	p.Metrics.Verdicts.WithLabelValues(sentiment).Inc()
	p.Metrics.ClassifyDuration.Observe(duration.Seconds())
	if shadowBanned {
		p.Metrics.ShadowBans.Inc()
	}
}

// RecordAutoPin records an auto-pin event
func (p *Provider) RecordAutoPin(ctx context.Context) {
	p.Metrics.AutoPins.Inc()
}

// RecordRateLimitRejection records a limiter rejection for an action
func (p *Provider) RecordRateLimitRejection(ctx context.Context, action string) {
	p.Metrics.RateLimitRejected.WithLabelValues(action).Inc()
}

// RecordHandleCheck records a social-handle check outcome
func (p *Provider) RecordHandleCheck(ctx context.Context, status string) {
	p.Metrics.HandleChecks.WithLabelValues(status).Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
