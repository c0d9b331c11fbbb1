package taste

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	profilesBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taste_profiles_built_total",
		Help: "Total number of taste profiles computed and stored",
	})

	insufficientData = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taste_profiles_insufficient_data_total",
		Help: "Profile builds skipped because the user had too few interactions",
	})
)

func RecordProfileBuilt() {
	profilesBuilt.Inc()
}

func RecordInsufficientData() {
	insufficientData.Inc()
}
