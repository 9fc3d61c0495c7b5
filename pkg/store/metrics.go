package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

var actionCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_actions_total",
		Help: "How many actions were reduced, partitioned by kind and status.",
	},
	[]string{"kind", "status"},
)

// Collectors returns the Prometheus collectors of the store.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{actionCount}
}
