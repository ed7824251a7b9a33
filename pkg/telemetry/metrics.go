package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/component"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "compose").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for mount duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "compose",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a component.Observer recording Prometheus metrics. Create one
// per registry; registering two on the same registry panics.
type Metrics struct {
	resolutions   *prometheus.CounterVec
	mounts        *prometheus.CounterVec
	mountDuration *prometheus.HistogramVec
	stale         *prometheus.CounterVec
	active        prometheus.Gauge
	loads         *prometheus.CounterVec
}

// NewMetrics registers the component metrics and returns an observer
// recording into them.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of component resolutions started",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounts_total",
			Help:        "Total number of finished mounts by status",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		mountDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mount_duration_seconds",
			Help:        "Time from resolution start to mount in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		stale: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stale_resolutions_total",
			Help:        "Total number of superseded resolutions that were dropped",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_mounts",
			Help:        "Number of currently mounted components",
			ConstLabels: config.ConstLabels,
		}),

		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "loads_total",
			Help:        "Total number of component loads by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
	}
}

func (m *Metrics) Resolving(name string, _ uint64) {
	m.resolutions.WithLabelValues(name).Inc()
}

func (m *Metrics) Stale(name string, _ uint64) {
	m.stale.WithLabelValues(name).Inc()
}

func (m *Metrics) Mounted(name string, _ uint64, elapsed time.Duration) {
	m.mounts.WithLabelValues(name, "success").Inc()
	m.mountDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	m.active.Inc()
}

func (m *Metrics) Failed(name string, _ uint64, err error) {
	m.mounts.WithLabelValues(name, errorCode(err)).Inc()
}

func (m *Metrics) Unmounted(string) {
	m.active.Dec()
}

// InstrumentLoader counts the loads l performs: "found", "missing" or the
// error code of a failure.
func (m *Metrics) InstrumentLoader(l component.Loader) component.Loader {
	return component.LoaderFunc(func(ctx context.Context, name string) (*component.Definition, error) {
		def, err := l.Load(ctx, name)
		switch {
		case err != nil:
			m.loads.WithLabelValues(errorCode(err)).Inc()
		case def == nil:
			m.loads.WithLabelValues("missing").Inc()
		default:
			m.loads.WithLabelValues("found").Inc()
		}
		return def, err
	})
}

// errorCode returns a low-cardinality label for err: its error code when it
// has one, otherwise a coarse category.
func errorCode(err error) string {
	var ce *cerrors.ComposeError
	switch {
	case errors.As(err, &ce) && ce.Code != "":
		return ce.Code
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}

var _ component.Observer = (*Metrics)(nil)
