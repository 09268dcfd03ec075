package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis Prometheus metrics.
var (
	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heptuple",
			Name:      "analysis_total",
			Help:      "Total number of computed analyses",
		},
		[]string{"language", "dominant"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "heptuple",
			Name:      "analysis_duration_seconds",
			Help:      "Keyword analysis duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"language"},
	)

	AnalysisCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heptuple",
			Name:      "analysis_cache_total",
			Help:      "Analysis cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heptuple",
			Name:      "search_results_total",
			Help:      "Ranked search results returned per corpus",
		},
		[]string{"corpus"},
	)

	FeedbackErrorScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "heptuple",
			Name:      "feedback_error_score",
			Help:      "Prediction error reported through user feedback",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
)

var analysisMetricsRegistered bool

// RegisterAnalysisMetrics registers the analysis, search and feedback metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	if analysisMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisCacheTotal)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(FeedbackErrorScore)
	analysisMetricsRegistered = true
}
