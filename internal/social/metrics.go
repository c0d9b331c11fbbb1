package social

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var matchScores = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "social_match_score",
	Help:    "Distribution of computed social match scores",
	Buckets: prometheus.LinearBuckets(0, 0.1, 11),
})

func RecordMatchComputed(score float64) {
	matchScores.Observe(score)
}
