package ui

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures render metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "myui").
	Namespace string

	// Buckets are the histogram buckets for pass duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Metrics records reconciler activity. A nil *Metrics records nothing.
type Metrics struct {
	passes           *prometheus.CounterVec
	passDuration     prometheus.Histogram
	componentRenders prometheus.Counter
	componentTime    prometheus.Histogram
	nodeOps          *prometheus.CounterVec
}

// NewMetrics registers the render metrics.
func NewMetrics(config MetricsConfig) *Metrics {
	if config.Namespace == "" {
		config.Namespace = "myui"
	}
	if config.Buckets == nil {
		config.Buckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25}
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "render",
			Name:      "passes_total",
			Help:      "Total number of batched render passes",
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "render",
			Name:      "pass_duration_seconds",
			Help:      "Batched render pass duration in seconds",
			Buckets:   config.Buckets,
		}),

		componentRenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "render",
			Name:      "component_renders_total",
			Help:      "Total number of component function invocations",
		}),

		componentTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "render",
			Name:      "component_duration_seconds",
			Help:      "Component function duration in seconds",
			Buckets:   config.Buckets,
		}),

		nodeOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "render",
			Name:      "node_operations_total",
			Help:      "Subtree operations performed by the reconciler",
		}, []string{"op"}),
	}
}

func (m *Metrics) observePass(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.passes.WithLabelValues(status).Inc()
	m.passDuration.Observe(d.Seconds())
}

func (m *Metrics) observeComponent(d time.Duration) {
	if m == nil {
		return
	}
	m.componentRenders.Inc()
	m.componentTime.Observe(d.Seconds())
}

func (m *Metrics) addMounts(n int)   { m.addOp("mount", n) }
func (m *Metrics) addUnmounts(n int) { m.addOp("unmount", n) }
func (m *Metrics) addReplaces(n int) { m.addOp("replace", n) }
func (m *Metrics) addMoves(n int)    { m.addOp("move", n) }

func (m *Metrics) addOp(op string, n int) {
	if m == nil {
		return
	}
	m.nodeOps.WithLabelValues(op).Add(float64(n))
}
