package seeding

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type seedMetrics struct {
	rowsTotal *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metricsInst *seedMetrics
)

func getMetrics() *seedMetrics {
	metricsOnce.Do(func() {
		metricsInst = &seedMetrics{
			rowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "import_seeded_rows_total",
				Help: "Rows processed by the seeding engine, by category and outcome.",
			}, []string{"category", "outcome"}),
		}
	})
	return metricsInst
}
