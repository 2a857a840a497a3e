package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "antroute"

// PrometheusHooks records solver and cache events as Prometheus metrics on
// its own registry.
type PrometheusHooks struct {
	registry *prometheus.Registry

	runs             *prometheus.CounterVec
	runSeconds       prometheus.Histogram
	iterations       prometheus.Counter
	iterationSeconds prometheus.Histogram
	stalledAnts      prometheus.Counter
	bestLength       prometheus.Gauge
	meanLength       prometheus.Gauge
	cacheOps         *prometheus.CounterVec
	cacheBytes       prometheus.Counter
}

var (
	_ SolverHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the hooks with a fresh registry.
func NewPrometheusHooks() *PrometheusHooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &PrometheusHooks{
		registry: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Solver runs by outcome.",
		}, []string{"status"}),
		runSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of complete solver runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Completed generate/update cycles.",
		}),
		iterationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_duration_seconds",
			Help:      "Wall time of one generate/update cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		stalledAnts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stalled_ants_total",
			Help:      "Ants that did not reach their destination.",
		}),
		bestLength: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_path_length",
			Help:      "Shortest path length of the latest iteration.",
		}),
		meanLength: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_path_length",
			Help:      "Mean path length of the latest iteration.",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
	}
}

// Registry returns the registry holding all metrics.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// WriteTextfile writes all metrics to path in the text exposition format,
// ready for a node exporter textfile collector.
func (h *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func (h *PrometheusHooks) OnRunStart(context.Context, string, int, int) {}

func (h *PrometheusHooks) OnIterationComplete(_ context.Context, _ string, _ int, best, mean float64, _ int, d time.Duration) {
	h.iterations.Inc()
	h.iterationSeconds.Observe(d.Seconds())
	h.bestLength.Set(best)
	h.meanLength.Set(mean)
}

func (h *PrometheusHooks) OnAntStalled(context.Context, string, int, error) {
	h.stalledAnts.Inc()
}

func (h *PrometheusHooks) OnRunComplete(_ context.Context, _ string, _ float64, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.runs.WithLabelValues(status).Inc()
	h.runSeconds.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}
