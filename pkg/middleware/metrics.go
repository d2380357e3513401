package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "flight").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// WireFlag is the query flag that selects the wire flavor.
	// Default: "jsx"
	WireFlag string
}

// MetricsOption configures the Prometheus metrics middleware.
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

// WithWireFlag sets the query flag that marks wire requests.
func WithWireFlag(flag string) MetricsOption {
	return func(c *MetricsConfig) {
		c.WireFlag = flag
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "flight",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
		WireFlag:  DefaultWireFlag,
	}
}

// Metrics holds the Prometheus collectors for page requests.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	boundaryErrors  *prometheus.CounterVec
	wireFlag        string
}

// NewMetrics registers the request metrics:
//   - flight_requests_total: counter by flavor (html, wire) and status code
//   - flight_request_duration_seconds: histogram by flavor
//   - flight_requests_in_flight: gauge of requests being served
//   - flight_boundary_errors_total: counter of failed pages by kind
//
// Registering twice against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of page requests by flavor and status",
			ConstLabels: config.ConstLabels,
		}, []string{"flavor", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Page request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"flavor"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_in_flight",
			Help:        "Number of page requests currently being served",
			ConstLabels: config.ConstLabels,
		}),

		boundaryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "boundary_errors_total",
			Help:        "Total number of pages that failed, by error kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		wireFlag: config.WireFlag,
	}
}

// Middleware records request metrics.
//
// Example:
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("blog"))
//	r := chi.NewRouter()
//	r.Use(metrics.Middleware)
//	r.Handle("/metrics", promhttp.Handler())
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flavor := Flavor(r, m.wireFlag)
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		m.inFlight.Inc()
		start := time.Now()
		defer func() {
			m.inFlight.Dec()
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requestDuration.WithLabelValues(flavor).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(flavor, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(ww, r)
	})
}

// RecordBoundaryError counts a page that failed with the given kind, e.g.
// "not_found" or "internal".
func (m *Metrics) RecordBoundaryError(kind string) {
	if m == nil {
		return
	}
	m.boundaryErrors.WithLabelValues(kind).Inc()
}
