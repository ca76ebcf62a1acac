package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline and signal provider Prometheus metrics.
var (
	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "documents_total",
			Help:      "Documents entering the pipeline by outcome",
		},
		[]string{"status"}, // "processed" / "skipped" / "rejected"
	)

	CandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "candidates_total",
			Help:      "Glyph candidates by pre-filter outcome",
		},
		[]string{"outcome"}, // "kept" / "dropped"
	)

	GlyphsPerRun = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "glyphdex",
			Name:      "glyphs_per_run",
			Help:      "Canonical glyphs produced per corpus run",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "glyphdex",
			Name:      "run_duration_seconds",
			Help:      "Corpus run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	SignalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "signal_requests_total",
			Help:      "Semantic signal provider requests",
		},
		[]string{"provider", "status"}, // status: "ok" / "absent" / "error"
	)

	SignalRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "glyphdex",
			Name:      "signal_request_duration_seconds",
			Help:      "Semantic signal request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	SignalCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "signal_cache_total",
			Help:      "Semantic signal cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentsTotal)
	prometheus.MustRegister(CandidatesTotal)
	prometheus.MustRegister(GlyphsPerRun)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(SignalRequestsTotal)
	prometheus.MustRegister(SignalRequestDuration)
	prometheus.MustRegister(SignalCacheTotal)
	pipelineMetricsRegistered = true
}
