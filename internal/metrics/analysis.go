package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dish analysis Prometheus metrics.
var (
	AnalysisRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dishscout",
			Name:      "analysis_requests_total",
			Help:      "Total number of dish analysis requests",
		},
		[]string{"provider", "model", "kind", "status"},
	)

	AnalysisRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dishscout",
			Name:      "analysis_request_duration_seconds",
			Help:      "Dish analysis request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model", "kind"},
	)

	AnalysisTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dishscout",
			Name:      "analysis_tokens_total",
			Help:      "Total analysis tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	AnalysisCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dishscout",
			Name:      "analysis_cache_total",
			Help:      "Analysis cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	MatchCandidatesScored = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dishscout",
			Name:      "match_candidates_scored",
			Help:      "Candidate dishes scored per match request",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)
)

var analysisMetricsRegistered bool

// RegisterAnalysisMetrics registers Prometheus analysis metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	if analysisMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalysisRequestsTotal)
	prometheus.MustRegister(AnalysisRequestDuration)
	prometheus.MustRegister(AnalysisTokensTotal)
	prometheus.MustRegister(AnalysisCacheTotal)
	prometheus.MustRegister(MatchCandidatesScored)
	analysisMetricsRegistered = true
}
