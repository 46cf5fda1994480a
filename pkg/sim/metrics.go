package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AnalyzeRequestsTotal counts analyze-paper requests by outcome code.
	AnalyzeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papermap_sim_analyze_requests_total",
			Help: "Total analyze-paper requests served by the simulator",
		},
		[]string{"code"},
	)

	// AnalyzeDuration observes time spent serving analyze-paper requests.
	AnalyzeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "papermap_sim_analyze_duration_seconds",
			Help:    "Duration of analyze-paper request handling",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(AnalyzeRequestsTotal)
	prometheus.MustRegister(AnalyzeDuration)
}
