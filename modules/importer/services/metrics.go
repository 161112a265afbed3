package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type importMetrics struct {
	submittedTotal *prometheus.CounterVec
	finishedTotal  *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metricsInst *importMetrics
)

func getMetrics() *importMetrics {
	metricsOnce.Do(func() {
		metricsInst = &importMetrics{
			submittedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "import_tasks_submitted_total",
				Help: "Import tasks accepted for processing, by category.",
			}, []string{"category"}),
			finishedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "import_tasks_finished_total",
				Help: "Import tasks that reached a terminal state, by status.",
			}, []string{"status"}),
		}
	})
	return metricsInst
}
