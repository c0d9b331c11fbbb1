package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var graphBuilds = promauto.NewCounter(prometheus.CounterOpts{
	Name: "graph_builds_total",
	Help: "Total per-place discovery graph edge builds",
})

func RecordGraphBuild() {
	graphBuilds.Inc()
}
