package places

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_swipes_total",
			Help: "Total number of swipes recorded",
		},
		[]string{"action"},
	)

	reviewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_reviews_total",
			Help: "Total number of reviews recorded",
		},
	)
)

func RecordSwipe(action string) {
	swipesTotal.WithLabelValues(action).Inc()
}

func RecordReview() {
	reviewsTotal.Inc()
}
