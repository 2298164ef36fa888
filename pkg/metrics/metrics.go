// Package metrics exports controller events as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "formflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for submission latency.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "formflow",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Outcome labels used by submissions_total.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeInvalid  = "invalid"
)

// Collector implements controller.Observer. Register it once per registry
// and share it between controllers.
type Collector struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	validations *prometheus.CounterVec
}

var _ controller.Observer = (*Collector)(nil)

// New registers the collector's metrics. Registering twice on the same
// registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submissions_total",
			Help:        "Total number of finished form submissions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submission_duration_seconds",
			Help:        "Transport round trip duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"form"}),

		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "field_validations_total",
			Help:        "Total number of field validations by result",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "field", "result"}),
	}
}

// FieldValidated implements controller.Observer.
func (c *Collector) FieldValidated(formID, fieldID string, result validation.Result) {
	label := "valid"
	if !result.Valid {
		label = "invalid"
	}
	c.validations.WithLabelValues(formID, fieldID, label).Inc()
}

// SubmissionFinished implements controller.Observer.
func (c *Collector) SubmissionFinished(formID string, outcome controller.Outcome, elapsed time.Duration) {
	c.submissions.WithLabelValues(formID, Classify(outcome)).Inc()
	if outcome.Submitted() {
		c.duration.WithLabelValues(formID).Observe(elapsed.Seconds())
	}
}

// Classify maps an outcome to its submissions_total label.
func Classify(outcome controller.Outcome) string {
	switch {
	case len(outcome.Issues) > 0:
		return OutcomeInvalid
	case outcome.Err != nil:
		return OutcomeFailed
	case outcome.Phase == controller.Success:
		return OutcomeSuccess
	default:
		return OutcomeRejected
	}
}
