package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the resource engine. A nil
// *Metrics is a no-op collector.
type Metrics struct {
	config MetricsConfig

	// Validation metrics
	componentsValidated prometheus.Counter
	validationFailures  prometheus.Counter

	// Initialization metrics
	stageDuration        *prometheus.HistogramVec
	resourceGroups       prometheus.Counter
	uncreatableResources prometheus.Counter

	// Handler metrics
	handlerCalls  *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec

	// Policy metrics
	policyViolations *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		componentsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_validated_total",
			Help:      "Total number of component descriptors validated",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of component validation failures",
		}),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of initialization stages in seconds",
				Buckets:   buckets,
			},
			[]string{"stage"},
		),
		resourceGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_groups_total",
			Help:      "Total number of resource groups processed",
		}),
		uncreatableResources: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uncreatable_resources_total",
			Help:      "Total number of resource groups with no creatable descriptor",
		}),

		handlerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_calls_total",
				Help:      "Total number of resource handler calls",
			},
			[]string{"resource_type", "operation"},
		),
		handlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_errors_total",
				Help:      "Total number of resource handler errors",
			},
			[]string{"resource_type", "operation"},
		),

		policyViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_violations_total",
				Help:      "Total number of policy violations",
			},
			[]string{"policy", "severity"},
		),
	}

	registry.MustRegister(
		m.componentsValidated,
		m.validationFailures,
		m.stageDuration,
		m.resourceGroups,
		m.uncreatableResources,
		m.handlerCalls,
		m.handlerErrors,
		m.policyViolations,
	)

	return m, nil
}

// RecordComponentsValidated records successfully validated components.
func (m *Metrics) RecordComponentsValidated(count int) {
	if m == nil || m.componentsValidated == nil {
		return
	}
	m.componentsValidated.Add(float64(count))
}

// RecordValidationFailure increments the validation failure counter.
func (m *Metrics) RecordValidationFailure() {
	if m == nil || m.validationFailures == nil {
		return
	}
	m.validationFailures.Inc()
}

// RecordResourceGroups records processed resource groups.
func (m *Metrics) RecordResourceGroups(count int) {
	if m == nil || m.resourceGroups == nil {
		return
	}
	m.resourceGroups.Add(float64(count))
}

// RecordUncreatableResource increments the uncreatable resource counter.
func (m *Metrics) RecordUncreatableResource() {
	if m == nil || m.uncreatableResources == nil {
		return
	}
	m.uncreatableResources.Inc()
}

// RecordHandlerCall records a resource handler call.
func (m *Metrics) RecordHandlerCall(resourceType, operation string) {
	if m == nil || m.handlerCalls == nil {
		return
	}
	m.handlerCalls.WithLabelValues(resourceType, operation).Inc()
}

// RecordHandlerError records a resource handler error.
func (m *Metrics) RecordHandlerError(resourceType, operation string) {
	if m == nil || m.handlerErrors == nil {
		return
	}
	m.handlerErrors.WithLabelValues(resourceType, operation).Inc()
}

// RecordPolicyViolation records a policy violation.
func (m *Metrics) RecordPolicyViolation(policy, severity string) {
	if m == nil || m.policyViolations == nil {
		return
	}
	m.policyViolations.WithLabelValues(policy, severity).Inc()
}

// StageTimer times a single initialization stage.
type StageTimer struct {
	start    time.Time
	observer prometheus.Observer
}

// StartStageTimer starts a timer for the given stage. Safe on a nil
// *Metrics; ObserveDuration is then a no-op.
func (m *Metrics) StartStageTimer(stage string) *StageTimer {
	t := &StageTimer{start: time.Now()}
	if m != nil && m.stageDuration != nil {
		t.observer = m.stageDuration.WithLabelValues(stage)
	}
	return t
}

// ObserveDuration records the elapsed time since the timer started.
func (t *StageTimer) ObserveDuration() {
	if t == nil || t.observer == nil {
		return
	}
	t.observer.Observe(time.Since(t.start).Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server exposing the metrics endpoint.
func (m *Metrics) StartMetricsServer() error {
	if m == nil || !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = server.ListenAndServe()
	}()

	return nil
}
