package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_served_total",
		Help: "Recommendation requests served, labeled by ranking mode",
	}, []string{"mode"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommendations_cache_hits_total",
		Help: "Recommendation responses served from cache",
	})

	topScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendations_top_score",
		Help:    "Score of the highest-ranked recommendation per request",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
)

func RecordServed(mode string, best float64) {
	requestsTotal.WithLabelValues(mode).Inc()
	topScore.Observe(best)
}

func RecordCacheHit() {
	cacheHits.Inc()
}
